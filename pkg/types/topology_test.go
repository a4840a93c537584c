package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopology_Validate(t *testing.T) {
	assert.NoError(t, Topology{Groups: 1, InnerPeers: 1}.Validate())
	assert.ErrorIs(t, Topology{Groups: 0, InnerPeers: 1}.Validate(), ErrInvalidTopology)
	assert.ErrorIs(t, Topology{Groups: 2, InnerPeers: 0}.Validate(), ErrInvalidTopology)
}

func TestTopology_JoinSplit(t *testing.T) {
	for groups := 1; groups <= 4; groups++ {
		for inner := 1; inner <= 4; inner++ {
			topo := Topology{Groups: groups, InnerPeers: inner}
			for w := 0; w < topo.Workers(); w++ {
				g, c := topo.Split(w)
				require.Less(t, g, groups)
				require.Less(t, c, inner)
				require.Equal(t, w, topo.Join(g, c))
			}
		}
	}
}

func TestTopology_Slots(t *testing.T) {
	topo := Topology{Groups: 4, InnerPeers: 2}

	// 组 2 的连接依次指向组 0, 1, 3
	assert.Equal(t, 0, topo.GroupOfSlot(2, 0))
	assert.Equal(t, 1, topo.GroupOfSlot(2, 1))
	assert.Equal(t, 3, topo.GroupOfSlot(2, 2))

	_, ok := topo.SlotOfGroup(2, 2)
	assert.False(t, ok, "自身组没有二进制连接")

	for own := 0; own < topo.Groups; own++ {
		for slot := 0; slot < topo.Remotes(); slot++ {
			g := topo.GroupOfSlot(own, slot)
			require.NotEqual(t, own, g)
			back, ok := topo.SlotOfGroup(own, g)
			require.True(t, ok)
			require.Equal(t, slot, back)
		}
	}
}

// TestTopology_RemoteWorker 对照原始的条件偏移公式
func TestTopology_RemoteWorker(t *testing.T) {
	for groups := 1; groups <= 5; groups++ {
		for inner := 1; inner <= 4; inner++ {
			topo := Topology{Groups: groups, InnerPeers: inner}
			for own := 0; own < groups; own++ {
				seen := make(map[int]bool)
				for slot := 0; slot < topo.Remotes(); slot++ {
					for c := 0; c < inner; c++ {
						want := slot*inner + c
						if slot >= own {
							want += inner
						}
						got := topo.RemoteWorker(own, slot, c)
						require.Equal(t, want, got)

						g, _ := topo.Split(got)
						require.NotEqual(t, own, g, "远端 worker 不应落在自身组")
						seen[got] = true
					}
				}
				// 远端 worker 恰好覆盖除自身组以外的全部 worker
				require.Len(t, seen, topo.Workers()-inner)
			}
		}
	}
}

func TestTopology_Checks(t *testing.T) {
	topo := Topology{Groups: 2, InnerPeers: 3}
	assert.NoError(t, topo.CheckWorker(5))
	assert.ErrorIs(t, topo.CheckWorker(6), ErrWorkerOutOfRange)
	assert.ErrorIs(t, topo.CheckWorker(-1), ErrWorkerOutOfRange)
	assert.NoError(t, topo.CheckGroup(1))
	assert.ErrorIs(t, topo.CheckGroup(2), ErrGroupOutOfRange)
}
