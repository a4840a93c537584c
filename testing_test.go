package dfcomm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dfcomm/pkg/codec"
	pkgif "github.com/dep2p/go-dfcomm/pkg/interfaces"
	"github.com/dep2p/go-dfcomm/pkg/message"
)

// ============================================================================
// 辅助函数
// ============================================================================

var intEnv = codec.NewEnvelope(codec.Uint64(), codec.Int())

type pulled struct {
	time    uint64
	records []int
}

func send(o pkgif.Observer[uint64, int], time uint64, records ...int) {
	o.Open(time)
	o.Give(message.FromRecords(append([]int(nil), records...)))
	o.Shut(time)
}

// drain 取出拉取端当前全部批次
func drain(p pkgif.Pullable[uint64, int]) []pulled {
	var out []pulled
	for {
		t, m, ok := p.Pull()
		if !ok {
			return out
		}
		out = append(out, pulled{time: t, records: append([]int(nil), m.Records()...)})
	}
}

// collect 持续拉取直到累计 n 个批次
func collect(t *testing.T, p pkgif.Pullable[uint64, int], n int) []pulled {
	t.Helper()
	var out []pulled
	require.Eventually(t, func() bool {
		out = append(out, drain(p)...)
		return len(out) >= n
	}, 5*time.Second, 5*time.Millisecond)
	return out
}

// startCluster 创建并启动内存集群，测试结束时关闭
func startCluster(t *testing.T, processes, workers int, opts ...Option) *Cluster {
	t.Helper()
	c, err := NewLocalCluster(processes, workers, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Start(ctx))
	return c
}

type channelEnds struct {
	pushers []pkgif.Observer[uint64, int]
	pull    pkgif.Pullable[uint64, int]
}

// allocate 让每个 worker 按全局编号顺序分配一个通道
func allocate(t *testing.T, workers []pkgif.Communicator) []channelEnds {
	t.Helper()
	out := make([]channelEnds, len(workers))
	for i, w := range workers {
		pushers, pull, err := NewChannel(w, intEnv)
		require.NoError(t, err)
		require.Len(t, pushers, len(workers))
		out[i] = channelEnds{pushers: pushers, pull: pull}
	}
	return out
}
