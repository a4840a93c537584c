package process

import (
	"fmt"
	"sync"

	pkgif "github.com/dep2p/go-dfcomm/pkg/interfaces"
	"github.com/dep2p/go-dfcomm/pkg/lib/log"
)

var logger = log.Logger("core/process")

// Hub 同一进程内 worker 共享的通道表
type Hub struct {
	peers   int
	workers []*Process

	mu       sync.Mutex
	channels map[uint64]*sharedChannel
}

// sharedChannel 某个通道编号上的共享对象
type sharedChannel struct {
	value any
	taken int
}

// NewHub 创建容纳 peers 个 worker 的 Hub
func NewHub(peers int) (*Hub, error) {
	if peers <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPeers, peers)
	}
	h := &Hub{
		peers:    peers,
		workers:  make([]*Process, peers),
		channels: make(map[uint64]*sharedChannel),
	}
	for i := range h.workers {
		h.workers[i] = &Process{hub: h, index: i}
	}
	return h, nil
}

// Peers 返回进程内 worker 数
func (h *Hub) Peers() int {
	return h.peers
}

// Worker 返回第 index 个 worker 的进程内通信器
func (h *Hub) Worker(index int) *Process {
	return h.workers[index]
}

// Workers 返回全部 worker 的进程内通信器
func (h *Hub) Workers() []*Process {
	return h.workers
}

// pending 返回尚未被所有 worker 取走的通道数
func (h *Hub) pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.channels)
}

// rendezvous 取得通道 id 上的共享对象
//
// 所有 worker 都取走后从表中移除，对象由各 worker 的端点持有。
func (h *Hub) rendezvous(id uint64, build func(peers int) any) any {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.channels[id]
	if !ok {
		ch = &sharedChannel{value: build(h.peers)}
		h.channels[id] = ch
		logger.Debug("创建进程内通道", "channel", id, "peers", h.peers)
	}
	ch.taken++
	if ch.taken == h.peers {
		delete(h.channels, id)
	}
	return ch.value
}

// ============================================================================
//                              Process
// ============================================================================

// Process 单个 worker 的进程内通信器
//
// 非并发安全：只能由所属 worker 使用。
type Process struct {
	hub       *Hub
	index     int
	allocated uint64
}

// 确保实现接口
var _ pkgif.LocalCommunicator = (*Process)(nil)

// Index 返回 worker 在进程内的编号
func (p *Process) Index() int {
	return p.index
}

// Peers 返回进程内 worker 数
func (p *Process) Peers() int {
	return p.hub.peers
}

// Allocated 返回已分配的通道数
func (p *Process) Allocated() uint64 {
	return p.allocated
}

// Allocate 分配下一个进程内通道
func (p *Process) Allocate(build func(peers int) any) any {
	id := p.allocated
	p.allocated++
	return p.hub.rendezvous(id, build)
}
