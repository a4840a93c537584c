package binary

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-dfcomm/config"
	"github.com/dep2p/go-dfcomm/internal/core/network"
	"github.com/dep2p/go-dfcomm/internal/core/process"
	pkgif "github.com/dep2p/go-dfcomm/pkg/interfaces"
)

// Params Binary 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Hub        *process.Hub
	Links      []network.Handles
	Reporter   pkgif.DeliveryReporter `optional:"true"`
}

// Module 是 binary 的 Fx 模块
var Module = fx.Module("binary",
	fx.Provide(NewWorkersFromParams),
)

// NewWorkersFromParams 为本进程每个 worker 创建一个 Binary，按进程内编号排列
func NewWorkersFromParams(p Params) ([]*Binary, error) {
	cluster := config.DefaultClusterConfig()
	maxFrame := config.DefaultNetworkConfig().MaxFrameSize
	if p.UnifiedCfg != nil {
		cluster = p.UnifiedCfg.Cluster
		maxFrame = p.UnifiedCfg.Network.MaxFrameSize
	}

	workers := make([]*Binary, p.Hub.Peers())
	for i := range workers {
		b, err := New(Config{
			Inner:        p.Hub.Worker(i),
			Groups:       cluster.Processes,
			Group:        cluster.Process,
			Graph:        cluster.Graph,
			Links:        p.Links,
			Reporter:     p.Reporter,
			MaxFrameSize: maxFrame,
		})
		if err != nil {
			return nil, err
		}
		workers[i] = b
	}
	logger.Debug("worker 通信器已创建", "group", cluster.Process, "workers", len(workers))
	return workers, nil
}
