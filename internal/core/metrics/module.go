package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-dfcomm/config"
	pkgif "github.com/dep2p/go-dfcomm/pkg/interfaces"
)

// Config 指标配置
type Config struct {
	// Enabled 是否启用统计
	Enabled bool

	// Namespace Prometheus 指标命名空间
	Namespace string

	// SnapshotInterval 周期快照间隔；0 表示不记录
	SnapshotInterval time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Namespace: "dfcomm",
	}
}

// ConfigFromUnified 从统一配置创建指标配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		Enabled:          cfg.Metrics.Enabled,
		Namespace:        cfg.Metrics.Namespace,
		SnapshotInterval: cfg.Metrics.SnapshotInterval.Duration(),
	}
}

func (c Config) namespace() string {
	if c.Namespace == "" {
		return "dfcomm"
	}
	return c.Namespace
}

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config        `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
}

// Result Metrics 输出
type Result struct {
	fx.Out

	Reporter  *Reporter
	Delivery  pkgif.DeliveryReporter
	Collector *SnapshotCollector
}

// Module 是 metrics 的 Fx 模块
var Module = fx.Module("metrics",
	fx.Provide(NewFromParams),
	fx.Invoke(registerLifecycle),
)

// NewFromParams 从参数创建 Reporter
//
// 未启用时 Delivery 为 Nop，Reporter 与 Collector 为 nil。
// Collector 始终可按需 Collect；只有 SnapshotInterval > 0 时才周期记录。
func NewFromParams(p Params) (Result, error) {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	if !cfg.Enabled {
		return Result{Delivery: Nop()}, nil
	}

	r, err := NewReporter(cfg, p.Registerer)
	if err != nil {
		return Result{}, err
	}

	return Result{Reporter: r, Delivery: r, Collector: NewSnapshotCollector(r)}, nil
}

type lifecycleParams struct {
	fx.In

	LC         fx.Lifecycle
	UnifiedCfg *config.Config     `optional:"true"`
	Collector  *SnapshotCollector `optional:"true"`
}

func registerLifecycle(p lifecycleParams) {
	interval := ConfigFromUnified(p.UnifiedCfg).SnapshotInterval
	if p.Collector == nil || interval <= 0 {
		return
	}
	p.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			p.Collector.Start(interval)
			return nil
		},
		OnStop: func(context.Context) error {
			p.Collector.Stop()
			return nil
		},
	})
}
