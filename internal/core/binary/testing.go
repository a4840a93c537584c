package binary

import (
	"testing"

	"github.com/dep2p/go-dfcomm/internal/core/mailbox"
	"github.com/dep2p/go-dfcomm/internal/core/metrics"
	"github.com/dep2p/go-dfcomm/internal/core/network"
	"github.com/dep2p/go-dfcomm/internal/core/process"
	"github.com/dep2p/go-dfcomm/pkg/codec"
	pkgif "github.com/dep2p/go-dfcomm/pkg/interfaces"
	"github.com/dep2p/go-dfcomm/pkg/types"
)

// ============================================================================
//                              内存集群（用于测试）
// ============================================================================

// routeKey 接收组内的通道路由键
type routeKey struct {
	group int
	id    types.ChannelIdentity
}

// testCluster 不经过链路的内存集群
//
// pump 同步地搬运注册与帧，替代链路的读写线程。
type testCluster struct {
	t        testing.TB
	topo     types.Topology
	links    [][]network.Handles // [group][slot]
	workers  []*Binary           // 按全局编号
	reporter *metrics.Reporter

	routes  map[routeKey]*mailbox.Mailbox[[]byte]
	pending map[routeKey][][]byte
}

func newTestCluster(t testing.TB, groups, inner int) *testCluster {
	t.Helper()

	reporter, err := metrics.NewReporter(metrics.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}

	c := &testCluster{
		t:        t,
		topo:     types.Topology{Groups: groups, InnerPeers: inner},
		links:    make([][]network.Handles, groups),
		workers:  make([]*Binary, groups*inner),
		reporter: reporter,
		routes:   make(map[routeKey]*mailbox.Mailbox[[]byte]),
		pending:  make(map[routeKey][][]byte),
	}

	for g := 0; g < groups; g++ {
		c.links[g] = make([]network.Handles, groups-1)
		for s := range c.links[g] {
			c.links[g][s] = network.NewHandles()
		}

		hub, err := process.NewHub(inner)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < inner; i++ {
			b, err := New(Config{
				Inner:    hub.Worker(i),
				Groups:   groups,
				Group:    g,
				Links:    c.links[g],
				Reporter: reporter,
			})
			if err != nil {
				t.Fatal(err)
			}
			c.workers[b.Index()] = b
		}
	}
	return c
}

// pump 处理所有排队的注册，然后把出站帧投递到目标组
func (c *testCluster) pump() {
	for g, slots := range c.links {
		for _, h := range slots {
			for {
				if _, ok := h.Writers.TryRecv(); !ok {
					break
				}
			}
			for {
				reg, ok := h.Readers.TryRecv()
				if !ok {
					break
				}
				key := routeKey{group: g, id: reg.ID}
				c.routes[key] = reg.Inbound
				for _, payload := range c.pending[key] {
					reg.Inbound.Send(payload)
				}
				delete(c.pending, key)
			}
		}
	}

	for g, slots := range c.links {
		for s, h := range slots {
			dest := c.topo.GroupOfSlot(g, s)
			for {
				f, ok := h.Sender.TryRecv()
				if !ok {
					break
				}
				if f.Header.Length != uint64(len(f.Payload)) {
					c.t.Fatalf("frame %s: payload %d bytes", f.Header, len(f.Payload))
				}
				if got, _ := c.topo.Split(int(f.Header.Target)); got != dest {
					c.t.Fatalf("frame %s routed to group %d", f.Header, dest)
				}
				key := routeKey{group: dest, id: f.Header.RouteKey()}
				if inbound, ok := c.routes[key]; ok {
					inbound.Send(f.Payload)
				} else {
					c.pending[key] = append(c.pending[key], f.Payload)
				}
			}
		}
	}
}

// inbound 返回某 worker 某通道的入站队列
func (c *testCluster) inbound(worker int, channel uint64) *mailbox.Mailbox[[]byte] {
	key := routeKey{
		group: worker / c.topo.InnerPeers,
		id:    types.ChannelIdentity{Worker: worker, Channel: channel},
	}
	inbound, ok := c.routes[key]
	if !ok {
		c.t.Fatalf("no route for %s", key.id)
	}
	return inbound
}

// closeGroup 关闭某组的全部链路句柄，模拟网络线程退出
func (c *testCluster) closeGroup(group int) {
	for _, h := range c.links[group] {
		h.Close()
	}
}

// endpoints 一个通道在所有 worker 上的端点
type endpoints[T, D any] struct {
	pushers [][]pkgif.Observer[T, D]
	pulls   []pkgif.Pullable[T, D]
}

// allocateAll 在所有 worker 上按编号顺序分配同一个通道
func allocateAll[T, D any](c *testCluster, env codec.Envelope[T, D]) endpoints[T, D] {
	e := endpoints[T, D]{
		pushers: make([][]pkgif.Observer[T, D], len(c.workers)),
		pulls:   make([]pkgif.Pullable[T, D], len(c.workers)),
	}
	for i, b := range c.workers {
		e.pushers[i], e.pulls[i] = NewChannel(b, env)
	}
	c.pump()
	return e
}
