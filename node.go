package dfcomm

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/dep2p/go-dfcomm/config"
	"github.com/dep2p/go-dfcomm/internal/core/binary"
	"github.com/dep2p/go-dfcomm/internal/core/metrics"
	"github.com/dep2p/go-dfcomm/internal/core/network"
	"github.com/dep2p/go-dfcomm/internal/util/logger"
	pkgif "github.com/dep2p/go-dfcomm/pkg/interfaces"
	"github.com/dep2p/go-dfcomm/pkg/lib/log"
	"github.com/dep2p/go-dfcomm/pkg/types"
)

var nodeLogger = log.Logger("dfcomm")

// ════════════════════════════════════════════════════════════════════════════
//                              节点状态
// ════════════════════════════════════════════════════════════════════════════

// NodeState 节点状态
type NodeState int

const (
	// StateIdle 已创建，未启动
	StateIdle NodeState = iota

	// StateRunning 链路运行中
	StateRunning

	// StateStopped 已停止
	StateStopped
)

// String 返回状态的字符串表示
func (s NodeState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              Node
// ════════════════════════════════════════════════════════════════════════════

// Node 集群中的一个进程
//
// Node 持有本进程全部 worker 的通信器，以及通往其他每个进程的一条链路。
// Worker(i) 返回的通信器只能由第 i 个 worker 的 goroutine 使用。
type Node struct {
	mu    sync.Mutex
	cfg   *config.Config
	app   *fx.App
	state NodeState

	// 由 Fx 注入
	group     *network.Group
	workers   []*binary.Binary
	reporter  *metrics.Reporter
	collector *metrics.SnapshotCollector
}

// New 在已建立的连接上创建节点
//
// conns 按 slot 排列，长度为 cfg.Cluster.Processes-1。cfg 为 nil 时使用
// 默认配置（单进程单 worker）。节点创建后即可分配通道，Start 之后帧才会
// 在链路上流动。
//
// 节点接管 conns：创建失败时 conns 也会被关闭。
func New(cfg *config.Config, conns []io.ReadWriteCloser, opts ...Option) (node *Node, err error) {
	defer func() {
		if err != nil {
			if cerr := closeConns(conns); cerr != nil {
				nodeLogger.Warn("关闭连接失败", "error", cerr)
			}
		}
	}()

	if cfg == nil {
		cfg = config.NewConfig()
	} else {
		cfg = config.CloneConfig(cfg)
	}

	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	if err := o.apply(cfg); err != nil {
		return nil, fmt.Errorf("apply option: %w", err)
	}
	if o.logSetup {
		logger.SetupFromUnified(cfg, o.logOutput)
	}

	node = &Node{cfg: cfg}
	app, err := buildFxApp(cfg, network.Conns(conns), o, node)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	node.app = app
	return node, nil
}

// Start 启动链路
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case StateRunning:
		return ErrAlreadyStarted
	case StateStopped:
		return ErrNodeClosed
	}

	if err := n.app.Start(ctx); err != nil {
		return fmt.Errorf("start fx app: %w", err)
	}
	n.state = StateRunning
	nodeLogger.Info("节点已启动",
		"process", n.cfg.Cluster.Process,
		"processes", n.cfg.Cluster.Processes,
		"workers", len(n.workers))
	return nil
}

// Stop 停止链路并关闭连接
//
// 停止后发往其他进程的帧被丢弃；节点不能再次启动。
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case StateIdle:
		return ErrNotStarted
	case StateStopped:
		return ErrNodeClosed
	}

	n.state = StateStopped
	if err := n.app.Stop(ctx); err != nil {
		nodeLogger.Error("停止节点失败", "error", err)
		return fmt.Errorf("stop fx app: %w", err)
	}
	nodeLogger.Info("节点已停止", "process", n.cfg.Cluster.Process)
	return nil
}

// Close 关闭节点并释放所有资源
//
// 未启动的节点直接关闭连接。可以多次调用。
func (n *Node) Close() error {
	n.mu.Lock()
	state := n.state
	n.mu.Unlock()

	switch state {
	case StateRunning:
		ctx, cancel := context.WithTimeout(context.Background(), n.shutdownTimeout())
		defer cancel()
		return n.Stop(ctx)
	case StateIdle:
		n.mu.Lock()
		n.state = StateStopped
		n.mu.Unlock()
		return n.group.Stop(context.Background())
	default:
		return nil
	}
}

func closeConns(conns []io.ReadWriteCloser) error {
	var errs error
	for _, c := range conns {
		if c != nil {
			errs = multierr.Append(errs, c.Close())
		}
	}
	return errs
}

func (n *Node) shutdownTimeout() time.Duration {
	if d := n.cfg.Network.ShutdownTimeout.Duration(); d > 0 {
		return 2 * d
	}
	return 10 * time.Second
}

// ════════════════════════════════════════════════════════════════════════════
//                              访问器
// ════════════════════════════════════════════════════════════════════════════

// Config 返回节点配置
func (n *Node) Config() *config.Config {
	return n.cfg
}

// Process 返回本进程编号
func (n *Node) Process() int {
	return n.cfg.Cluster.Process
}

// State 返回节点状态
func (n *Node) State() NodeState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Worker 返回第 i 个本地 worker 的通信器
func (n *Node) Worker(i int) (pkgif.Communicator, error) {
	if i < 0 || i >= len(n.workers) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrWorkerIndex, i, len(n.workers))
	}
	return n.workers[i], nil
}

// Workers 返回全部本地 worker 的通信器，按进程内编号排列
func (n *Node) Workers() []pkgif.Communicator {
	out := make([]pkgif.Communicator, len(n.workers))
	for i, w := range n.workers {
		out[i] = w
	}
	return out
}

// Stats 返回投递统计；统计关闭时返回零值
func (n *Node) Stats() types.DeliveryStats {
	if n.reporter == nil {
		return types.DeliveryStats{}
	}
	return n.reporter.Snapshot()
}

// Snapshot 采集一次投递快照，增量相对上一次采集；统计关闭时返回 false
func (n *Node) Snapshot() (metrics.DeliverySnapshot, bool) {
	if n.collector == nil {
		return metrics.DeliverySnapshot{}, false
	}
	return n.collector.Collect(), true
}

// LinkStats 返回每条链路的统计，按 slot 排列
func (n *Node) LinkStats() []network.Stats {
	links := n.group.Links()
	out := make([]network.Stats, len(links))
	for i, l := range links {
		out[i] = l.Stats()
	}
	return out
}

// Done 返回全部链路退出后关闭的通道
func (n *Node) Done() <-chan struct{} {
	return n.group.Done()
}

// Err 返回链路运行期间的错误
func (n *Node) Err() error {
	return n.group.Err()
}
