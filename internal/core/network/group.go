package network

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-dfcomm/pkg/types"
)

// Group 一个进程到其他所有进程组的链路集合
//
// 链路按 slot 排列：第 s 条通往组 GroupOfSlot(own, s)。
// 单条链路退出不影响其他链路。
type Group struct {
	own   int
	links []*Link

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
	started bool
}

// NewGroup 在按 slot 排列的连接上创建链路
func NewGroup(own int, conns []io.ReadWriteCloser, cfg Config) *Group {
	topo := types.Topology{Groups: len(conns) + 1, InnerPeers: 1}
	links := make([]*Link, len(conns))
	for slot, conn := range conns {
		links[slot] = NewLink(topo.GroupOfSlot(own, slot), conn, cfg)
	}
	return &Group{
		own:   own,
		links: links,
		done:  make(chan struct{}),
	}
}

// Links 返回全部链路
func (g *Group) Links() []*Link {
	return g.links
}

// Handles 返回按 slot 排列的队列句柄
func (g *Group) Handles() []Handles {
	out := make([]Handles, len(g.links))
	for i, l := range g.links {
		out[i] = l.Handles()
	}
	return out
}

// Start 在后台运行全部链路
//
// 重复调用无效果。
func (g *Group) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		return
	}
	g.started = true

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel

	var (
		eg    errgroup.Group
		errMu sync.Mutex
		errs  error
	)
	for _, l := range g.links {
		l := l
		eg.Go(func() error {
			if err := l.Run(ctx); err != nil {
				errMu.Lock()
				errs = multierr.Append(errs, err)
				errMu.Unlock()
			}
			return nil
		})
	}

	go func() {
		_ = eg.Wait()
		g.mu.Lock()
		g.err = errs
		g.mu.Unlock()
		close(g.done)
		logger.Debug("全部链路已退出", "group", g.own, "links", len(g.links))
	}()

	logger.Info("链路已启动", "group", g.own, "links", len(g.links))
}

// Stop 停止全部链路并等待退出
//
// ctx 结束前链路未全部退出时返回 ctx 的错误。返回链路运行期间的错误。
func (g *Group) Stop(ctx context.Context) error {
	g.mu.Lock()
	if !g.started {
		g.started = true
		g.cancel = func() {}
		g.mu.Unlock()
		var errs error
		for _, l := range g.links {
			errs = multierr.Append(errs, l.Close())
		}
		close(g.done)
		return errs
	}
	cancel := g.cancel
	g.mu.Unlock()

	cancel()
	select {
	case <-g.done:
		return g.Err()
	case <-ctx.Done():
		return fmt.Errorf("stop links: %w", ctx.Err())
	}
}

// Done 返回全部链路退出后关闭的通道
func (g *Group) Done() <-chan struct{} {
	return g.done
}

// Err 返回链路运行期间的错误（全部退出后有效）
func (g *Group) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}
