package process

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-dfcomm/config"
)

// Params Hub 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Module 是 process 的 Fx 模块
var Module = fx.Module("process",
	fx.Provide(NewHubFromParams),
)

// NewHubFromParams 按本进程 worker 数创建 Hub
func NewHubFromParams(p Params) (*Hub, error) {
	peers := config.DefaultClusterConfig().WorkersPerProcess
	if p.UnifiedCfg != nil {
		peers = p.UnifiedCfg.Cluster.WorkersPerProcess
	}
	return NewHub(peers)
}
