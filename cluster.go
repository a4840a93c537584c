package dfcomm

import (
	"context"
	"fmt"
	"io"
	"net"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-dfcomm/config"
	pkgif "github.com/dep2p/go-dfcomm/pkg/interfaces"
	"github.com/dep2p/go-dfcomm/pkg/types"
)

// Cluster 单进程内模拟的多进程集群
//
// 每个“进程”是一个 Node，进程之间用 net.Pipe 两两相连。用于测试与演示。
type Cluster struct {
	topology types.Topology
	nodes    []*Node
}

// NewLocalCluster 创建 processes 个进程、每进程 workers 个 worker 的内存集群
func NewLocalCluster(processes, workers int, opts ...Option) (*Cluster, error) {
	topo := types.Topology{Groups: processes, InnerPeers: workers}
	if err := topo.Validate(); err != nil {
		return nil, err
	}

	conns := pipeMesh(topo)
	c := &Cluster{topology: topo, nodes: make([]*Node, processes)}
	for p := 0; p < processes; p++ {
		cfg := config.NewConfig()
		cfg.Cluster = cfg.Cluster.WithSize(processes, workers).WithProcess(p)

		node, err := New(cfg, conns[p], opts...)
		if err != nil {
			closeAll(conns)
			return nil, fmt.Errorf("process %d: %w", p, err)
		}
		c.nodes[p] = node
	}
	return c, nil
}

// pipeMesh 为每对进程创建一条 net.Pipe，按各自的 slot 排列
func pipeMesh(topo types.Topology) [][]io.ReadWriteCloser {
	conns := make([][]io.ReadWriteCloser, topo.Groups)
	for g := range conns {
		conns[g] = make([]io.ReadWriteCloser, topo.Remotes())
	}
	for a := 0; a < topo.Groups; a++ {
		for b := a + 1; b < topo.Groups; b++ {
			x, y := net.Pipe()
			sa, _ := topo.SlotOfGroup(a, b)
			sb, _ := topo.SlotOfGroup(b, a)
			conns[a][sa] = x
			conns[b][sb] = y
		}
	}
	return conns
}

func closeAll(conns [][]io.ReadWriteCloser) {
	for _, row := range conns {
		for _, c := range row {
			_ = c.Close()
		}
	}
}

// Start 并发启动全部节点
func (c *Cluster) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, n := range c.nodes {
		n := n
		g.Go(func() error { return n.Start(ctx) })
	}
	return g.Wait()
}

// Close 关闭全部节点
func (c *Cluster) Close() error {
	var errs error
	for _, n := range c.nodes {
		errs = multierr.Append(errs, n.Close())
	}
	return errs
}

// Topology 返回集群拓扑
func (c *Cluster) Topology() types.Topology {
	return c.topology
}

// Nodes 返回全部节点，按进程编号排列
func (c *Cluster) Nodes() []*Node {
	return c.nodes
}

// Node 返回第 p 个进程的节点
func (c *Cluster) Node(p int) *Node {
	return c.nodes[p]
}

// Workers 返回全部 worker 的通信器，按全局编号排列
func (c *Cluster) Workers() []pkgif.Communicator {
	out := make([]pkgif.Communicator, 0, c.topology.Workers())
	for _, n := range c.nodes {
		out = append(out, n.Workers()...)
	}
	return out
}

// Stats 返回全部节点投递统计之和
func (c *Cluster) Stats() types.DeliveryStats {
	var total types.DeliveryStats
	for _, n := range c.nodes {
		s := n.Stats()
		total.FramesSent += s.FramesSent
		total.BytesSent += s.BytesSent
		total.FramesDropped += s.FramesDropped
		total.FramesReceived += s.FramesReceived
		total.BytesReceived += s.BytesReceived
		total.RegistrationsDropped += s.RegistrationsDropped
	}
	return total
}
