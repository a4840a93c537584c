package dfcomm

import (
	"errors"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-dfcomm/config"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 集群配置覆盖
	graph *uint64

	// 指标
	registerer prometheus.Registerer

	// 日志
	logOutput io.Writer
	logSetup  bool

	// 预设
	preset string

	// 额外的 Fx 选项
	fxOptions []fx.Option
}

func newOptions() *options {
	return &options{}
}

// apply 把选项应用到配置
func (o *options) apply(cfg *config.Config) error {
	if o.preset != "" {
		if err := config.ApplyPreset(cfg, o.preset); err != nil {
			return err
		}
	}
	if o.graph != nil {
		cfg.Cluster.Graph = *o.graph
	}
	return nil
}

// WithGraph 设置数据流图编号
//
// 同一组连接上运行多个图时用于区分帧。
func WithGraph(graph uint64) Option {
	return func(o *options) error {
		o.graph = &graph
		return nil
	}
}

// WithPreset 应用配置预设（local/cluster/minimal）
func WithPreset(name string) Option {
	return func(o *options) error {
		o.preset = name
		return nil
	}
}

// WithRegisterer 把投递计数器注册到 reg
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) error {
		if reg == nil {
			return errors.New("nil prometheus registerer")
		}
		o.registerer = reg
		return nil
	}
}

// WithLogging 按配置的 log 段与环境变量安装默认 logger，输出到 w
//
// w 为 nil 时输出到 stderr。
func WithLogging(w io.Writer) Option {
	return func(o *options) error {
		o.logSetup = true
		o.logOutput = w
		return nil
	}
}

// WithFxOptions 追加 Fx 选项（用于扩展或测试）
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}
