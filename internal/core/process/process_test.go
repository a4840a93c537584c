package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgif "github.com/dep2p/go-dfcomm/pkg/interfaces"
	"github.com/dep2p/go-dfcomm/pkg/message"
	"github.com/dep2p/go-dfcomm/pkg/types"
)

// ============================================================================
//                              Hub 测试
// ============================================================================

func TestNewHub(t *testing.T) {
	_, err := NewHub(0)
	assert.ErrorIs(t, err, ErrInvalidPeers)

	hub, err := NewHub(3)
	require.NoError(t, err)
	assert.Equal(t, 3, hub.Peers())
	require.Len(t, hub.Workers(), 3)
	for i, w := range hub.Workers() {
		assert.Equal(t, i, w.Index())
		assert.Equal(t, 3, w.Peers())
	}
}

func TestHub_SharedChannelReleased(t *testing.T) {
	hub, err := NewHub(2)
	require.NoError(t, err)

	NewChannel[int, int](hub.Worker(0))
	assert.Equal(t, 1, hub.pending(), "第二个 worker 尚未取走")

	NewChannel[int, int](hub.Worker(1))
	assert.Equal(t, 0, hub.pending())

	assert.Equal(t, uint64(1), hub.Worker(0).Allocated())
	assert.Equal(t, uint64(1), hub.Worker(1).Allocated())
}

// ============================================================================
//                              通道测试
// ============================================================================

func TestChannel_Delivery(t *testing.T) {
	hub, err := NewHub(2)
	require.NoError(t, err)

	push0, _ := NewChannel[uint64, string](hub.Worker(0))
	_, pull1 := NewChannel[uint64, string](hub.Worker(1))
	require.Len(t, push0, 2)

	for i, p := range push0 {
		assert.Equal(t, i, p.(pkgif.Addressed).Target())
	}

	batch := message.FromRecords([]string{"a", "b"})
	push0[1].Open(3)
	push0[1].Give(batch)
	push0[1].Shut(3)

	// 记录所有权已转移
	assert.True(t, batch.IsEmpty())

	tm, msg, ok := pull1.Pull()
	require.True(t, ok)
	assert.Equal(t, uint64(3), tm)
	assert.Equal(t, []string{"a", "b"}, msg.Records())

	_, _, ok = pull1.Pull()
	assert.False(t, ok)
}

func TestChannel_EmptyBatchIgnored(t *testing.T) {
	hub, err := NewHub(1)
	require.NoError(t, err)

	push, pull := NewChannel[int, int](hub.Worker(0))
	push[0].Open(1)
	push[0].Give(message.New[int]())
	push[0].Shut(1)

	_, _, ok := pull.Pull()
	assert.False(t, ok)
}

func TestChannel_ObserverProtocol(t *testing.T) {
	hub, err := NewHub(1)
	require.NoError(t, err)
	push, _ := NewChannel[int, int](hub.Worker(0))
	o := push[0]

	assert.PanicsWithValue(t, types.ErrNotOpen, func() { o.Give(message.FromRecords([]int{1})) })
	assert.PanicsWithValue(t, types.ErrNotOpen, func() { o.Shut(0) })

	o.Open(1)
	assert.PanicsWithValue(t, types.ErrAlreadyOpen, func() { o.Open(2) })
}

func TestChannel_TypeMismatch(t *testing.T) {
	hub, err := NewHub(2)
	require.NoError(t, err)

	NewChannel[int, int](hub.Worker(0))
	assert.Panics(t, func() {
		NewChannel[int, string](hub.Worker(1))
	})
}
