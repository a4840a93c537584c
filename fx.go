package dfcomm

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-dfcomm/config"
	"github.com/dep2p/go-dfcomm/internal/core/binary"
	"github.com/dep2p/go-dfcomm/internal/core/metrics"
	"github.com/dep2p/go-dfcomm/internal/core/network"
	"github.com/dep2p/go-dfcomm/internal/core/process"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. metrics: DeliveryReporter
//  2. process: 本进程 worker 共享的 Hub
//  3. network: 每个远端进程一条链路
//  4. binary: 每个 worker 一个跨进程通信器
func buildFxApp(cfg *config.Config, conns network.Conns, o *options, node *Node) (*fx.App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if want := cfg.Cluster.Processes - 1; len(conns) != want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrConnCount, len(conns), want)
	}

	modules := []fx.Option{
		// 配置注入
		fx.Supply(cfg),
		fx.Supply(conns),

		metrics.Module,
		process.Module,
		network.Module,
		binary.Module,

		fx.Populate(&node.group, &node.workers, &node.reporter, &node.collector),
	}

	if o.registerer != nil {
		reg := o.registerer
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return reg }))
	}

	modules = append(modules, o.fxOptions...)

	// 禁用 Fx 日志输出（避免干扰用户日志）
	modules = append(modules,
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return app, nil
}
