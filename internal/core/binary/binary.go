package binary

import (
	"fmt"

	"github.com/dep2p/go-dfcomm/internal/core/metrics"
	"github.com/dep2p/go-dfcomm/internal/core/network"
	pkgif "github.com/dep2p/go-dfcomm/pkg/interfaces"
	"github.com/dep2p/go-dfcomm/pkg/lib/log"
	"github.com/dep2p/go-dfcomm/pkg/types"
)

var logger = log.Logger("core/binary")

// Config Binary 构造参数
type Config struct {
	// Inner 本进程的进程内通信器
	Inner pkgif.LocalCommunicator

	// Groups 进程组数量
	Groups int

	// Group 本进程组编号
	Group int

	// Graph 数据流图编号，写入每个帧头
	Graph uint64

	// Links 每个远端进程组一组队列句柄，按 slot 排列（跳过本组）
	Links []network.Handles

	// Reporter 投递观测钩子；为 nil 时不统计
	Reporter pkgif.DeliveryReporter

	// MaxFrameSize 出站帧负载上限，应与接收方的链路配置一致；0 表示不检查
	MaxFrameSize uint64
}

// Binary 跨进程二进制通信器
//
// 非并发安全：只能由所属 worker 使用。
type Binary struct {
	inner     pkgif.LocalCommunicator
	topology  types.Topology
	group     int
	index     int
	graph     uint64
	allocated uint64
	links     []network.Handles
	reporter  pkgif.DeliveryReporter
	maxFrame  uint64
}

// 确保实现接口
var _ pkgif.Communicator = (*Binary)(nil)

// New 创建 Binary
func New(cfg Config) (*Binary, error) {
	if cfg.Inner == nil {
		return nil, ErrNilInner
	}

	topo := types.Topology{Groups: cfg.Groups, InnerPeers: cfg.Inner.Peers()}
	if err := topo.Validate(); err != nil {
		return nil, err
	}
	if err := topo.CheckGroup(cfg.Group); err != nil {
		return nil, err
	}
	if len(cfg.Links) != topo.Remotes() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrLinkCount, len(cfg.Links), topo.Remotes())
	}

	reporter := cfg.Reporter
	if reporter == nil {
		reporter = metrics.Nop()
	}

	return &Binary{
		inner:    cfg.Inner,
		topology: topo,
		group:    cfg.Group,
		index:    topo.Join(cfg.Group, cfg.Inner.Index()),
		graph:    cfg.Graph,
		links:    cfg.Links,
		reporter: reporter,
		maxFrame: cfg.MaxFrameSize,
	}, nil
}

// Index 返回本 worker 的全局编号
func (b *Binary) Index() int {
	return b.index
}

// Peers 返回集群 worker 总数
func (b *Binary) Peers() int {
	return b.topology.Workers()
}

// Group 返回本进程组编号
func (b *Binary) Group() int {
	return b.group
}

// Graph 返回数据流图编号
func (b *Binary) Graph() uint64 {
	return b.graph
}

// Topology 返回集群拓扑
func (b *Binary) Topology() types.Topology {
	return b.topology
}

// Allocated 返回已分配的通道数，即下一个通道编号
func (b *Binary) Allocated() uint64 {
	return b.allocated
}

// Inner 返回进程内通信器
func (b *Binary) Inner() pkgif.LocalCommunicator {
	return b.inner
}
