package network

import (
	"context"
	"io"

	"go.uber.org/fx"

	"github.com/dep2p/go-dfcomm/config"
)

// Conns 按 slot 排列的远端连接
type Conns []io.ReadWriteCloser

// Params 链路依赖参数
type Params struct {
	fx.In

	LC         fx.Lifecycle
	Conns      Conns
	UnifiedCfg *config.Config `optional:"true"`
}

// Result 链路输出
type Result struct {
	fx.Out

	Group   *Group
	Handles []Handles
}

// Module 是 network 的 Fx 模块
var Module = fx.Module("network",
	fx.Provide(NewGroupFromParams),
)

// NewGroupFromParams 从参数创建链路集合，并注册启动/停止钩子
func NewGroupFromParams(p Params) Result {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	own := 0
	if p.UnifiedCfg != nil {
		own = p.UnifiedCfg.Cluster.Process
	}

	g := NewGroup(own, p.Conns, cfg)
	p.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			g.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cfg.ShutdownTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.ShutdownTimeout)
				defer cancel()
			}
			return g.Stop(ctx)
		},
	})
	return Result{Group: g, Handles: g.Handles()}
}
