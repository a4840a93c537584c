package process

import (
	"fmt"

	"github.com/dep2p/go-dfcomm/internal/core/mailbox"
	pkgif "github.com/dep2p/go-dfcomm/pkg/interfaces"
	"github.com/dep2p/go-dfcomm/pkg/message"
	"github.com/dep2p/go-dfcomm/pkg/types"
)

// batch 进程内传递的（时间戳, 批次）
type batch[T, D any] struct {
	time T
	msg  *message.Message[D]
}

// mailboxes 一个通道上每个 worker 一个的邮箱
type mailboxes[T, D any] []*mailbox.Mailbox[batch[T, D]]

// NewChannel 分配一个进程内通道
//
// 返回按进程内编号排序的推送端（含发往自身的一个）和本 worker 的拉取端。
// 同一进程内各 worker 必须以相同的类型参数、相同的顺序调用。
func NewChannel[T, D any](lc pkgif.LocalCommunicator) ([]pkgif.Observer[T, D], pkgif.Pullable[T, D]) {
	shared := lc.Allocate(func(peers int) any {
		boxes := make(mailboxes[T, D], peers)
		for i := range boxes {
			boxes[i] = mailbox.New[batch[T, D]]()
		}
		return boxes
	})

	boxes, ok := shared.(mailboxes[T, D])
	if !ok {
		panic(fmt.Errorf("%w: want %T, got %T", ErrTypeMismatch, boxes, shared))
	}

	pushers := make([]pkgif.Observer[T, D], len(boxes))
	for i, box := range boxes {
		pushers[i] = &observer[T, D]{target: i, box: box}
	}
	return pushers, &pullable[T, D]{box: boxes[lc.Index()]}
}

// ============================================================================
//                              observer 进程内推送端
// ============================================================================

type observer[T, D any] struct {
	target int
	box    *mailbox.Mailbox[batch[T, D]]
	time   T
	open   bool
}

var (
	_ pkgif.Observer[int, int] = (*observer[int, int])(nil)
	_ pkgif.Addressed          = (*observer[int, int])(nil)
)

// Target 返回目标 worker 的进程内编号
func (o *observer[T, D]) Target() int {
	return o.target
}

// Open 打开时间戳
func (o *observer[T, D]) Open(time T) {
	if o.open {
		panic(types.ErrAlreadyOpen)
	}
	o.time = time
	o.open = true
}

// Give 转交批次中的记录
//
// 记录切片的所有权转移给接收方，调用方的批次随之变空。
func (o *observer[T, D]) Give(m *message.Message[D]) {
	if !o.open {
		panic(types.ErrNotOpen)
	}
	if m.Len() == 0 {
		return
	}
	o.box.Send(batch[T, D]{time: o.time, msg: message.FromRecords(m.Take())})
}

// Shut 关闭时间戳
func (o *observer[T, D]) Shut(_ T) {
	if !o.open {
		panic(types.ErrNotOpen)
	}
	var zero T
	o.time = zero
	o.open = false
}

// ============================================================================
//                              pullable 进程内拉取端
// ============================================================================

type pullable[T, D any] struct {
	box     *mailbox.Mailbox[batch[T, D]]
	current batch[T, D]
}

var _ pkgif.Pullable[int, int] = (*pullable[int, int])(nil)

// Pull 非阻塞地取出下一个批次
func (p *pullable[T, D]) Pull() (T, *message.Message[D], bool) {
	b, ok := p.box.TryRecv()
	p.current = b
	if !ok {
		var zero T
		return zero, nil, false
	}
	return p.current.time, p.current.msg, true
}
