package dfcomm

import (
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dfcomm/config"
	"github.com/dep2p/go-dfcomm/internal/core/binary"
	"github.com/dep2p/go-dfcomm/internal/core/process"
	"github.com/dep2p/go-dfcomm/pkg/lib/log"
)

// ============================================================================
// 构造测试
// ============================================================================

func TestNew_DefaultConfig(t *testing.T) {
	n, err := New(nil, nil)
	require.NoError(t, err)
	defer n.Close()

	assert.Equal(t, StateIdle, n.State())
	assert.Equal(t, 0, n.Process())
	require.Len(t, n.Workers(), 1)

	w, err := n.Worker(0)
	require.NoError(t, err)
	assert.Equal(t, 0, w.Index())
	assert.Equal(t, 1, w.Peers())
}

func TestNew_ConnCount(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Cluster = cfg.Cluster.WithSize(3, 1)

	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	_, err := New(cfg, []io.ReadWriteCloser{a})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnCount)

	// 创建失败时连接已被关闭
	_, err = a.Write([]byte{1})
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Cluster.Processes = 0

	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestNew_ClonesConfig(t *testing.T) {
	cfg := config.NewConfig()
	n, err := New(cfg, nil, WithGraph(9))
	require.NoError(t, err)
	defer n.Close()

	assert.Equal(t, uint64(9), n.Config().Cluster.Graph)
	assert.Zero(t, cfg.Cluster.Graph)

	w, err := n.Worker(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), w.(*binary.Binary).Graph())
}

func TestNew_Options(t *testing.T) {
	_, err := New(nil, nil, WithPreset("bogus"))
	assert.Error(t, err)

	_, err = New(nil, nil, WithRegisterer(nil))
	assert.Error(t, err)

	n, err := New(nil, nil, WithPreset("minimal"))
	require.NoError(t, err)
	defer n.Close()
	assert.False(t, n.Config().Metrics.Enabled)
	assert.Zero(t, n.Stats())
	_, ok := n.Snapshot()
	assert.False(t, ok)
}

func TestNew_WithLogging(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	var sb strings.Builder
	n, err := New(nil, nil, WithLogging(&sb))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, n.Start(ctx))
	require.NoError(t, n.Close())

	assert.Contains(t, sb.String(), "component=dfcomm")
}

func TestNode_WorkerIndex(t *testing.T) {
	n, err := New(nil, nil)
	require.NoError(t, err)
	defer n.Close()

	_, err = n.Worker(1)
	assert.ErrorIs(t, err, ErrWorkerIndex)
	_, err = n.Worker(-1)
	assert.ErrorIs(t, err, ErrWorkerIndex)
}

// ============================================================================
// 生命周期测试
// ============================================================================

func TestNode_Lifecycle(t *testing.T) {
	n, err := New(nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.ErrorIs(t, n.Stop(ctx), ErrNotStarted)

	require.NoError(t, n.Start(ctx))
	assert.Equal(t, StateRunning, n.State())
	assert.ErrorIs(t, n.Start(ctx), ErrAlreadyStarted)

	require.NoError(t, n.Stop(ctx))
	assert.Equal(t, StateStopped, n.State())
	assert.ErrorIs(t, n.Stop(ctx), ErrNodeClosed)
	assert.ErrorIs(t, n.Start(ctx), ErrNodeClosed)
	assert.NoError(t, n.Close())
}

func TestNode_DoneAfterPeerExit(t *testing.T) {
	c := startCluster(t, 2, 1)

	require.NoError(t, c.Node(0).Close())
	select {
	case <-c.Node(1).Done():
	case <-time.After(5 * time.Second):
		t.Fatal("links of process 1 did not exit")
	}
	assert.NoError(t, c.Node(1).Err())
}

func TestNode_DropAfterStop(t *testing.T) {
	c := startCluster(t, 2, 1)
	ends := allocate(t, c.Workers())

	require.NoError(t, c.Node(1).Close())
	select {
	case <-c.Node(0).Done():
	case <-time.After(5 * time.Second):
		t.Fatal("links of process 0 did not exit")
	}

	send(ends[0].pushers[1], 1, 1)
	s := c.Node(0).Stats()
	assert.Equal(t, uint64(1), s.FramesDropped)
	assert.Zero(t, s.FramesSent)
}

func TestNode_Registerer(t *testing.T) {
	reg := prometheus.NewRegistry()
	n, err := New(nil, nil, WithRegisterer(reg))
	require.NoError(t, err)
	defer n.Close()

	count, err := testutil.GatherAndCount(reg, "dfcomm_registrations_dropped_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// 同一 Registerer 上重复注册
	_, err = New(nil, nil, WithRegisterer(reg))
	assert.Error(t, err)
}

// ============================================================================
// 通道分配分派
// ============================================================================

type bareCommunicator struct{}

func (bareCommunicator) Index() int { return 0 }
func (bareCommunicator) Peers() int { return 1 }

func TestNewChannel_Unsupported(t *testing.T) {
	_, _, err := NewChannel(bareCommunicator{}, intEnv)
	assert.ErrorIs(t, err, ErrUnsupportedCommunicator)
}

func TestNewChannel_ProcessCommunicator(t *testing.T) {
	hub, err := process.NewHub(2)
	require.NoError(t, err)

	p0, _, err := NewChannel(hub.Worker(0), intEnv)
	require.NoError(t, err)
	_, pull1, err := NewChannel(hub.Worker(1), intEnv)
	require.NoError(t, err)

	send(p0[1], 4, 8, 9)
	assert.Equal(t, []pulled{{time: 4, records: []int{8, 9}}}, drain(pull1))
}

func TestVersionInfo(t *testing.T) {
	assert.Contains(t, VersionInfo(), Version)
}
