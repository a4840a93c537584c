package binary

import (
	"github.com/dep2p/go-dfcomm/internal/core/mailbox"
	"github.com/dep2p/go-dfcomm/pkg/codec"
	pkgif "github.com/dep2p/go-dfcomm/pkg/interfaces"
	"github.com/dep2p/go-dfcomm/pkg/message"
	"github.com/dep2p/go-dfcomm/pkg/types"
)

// ============================================================================
//                              observer 远端推送端
// ============================================================================

// observer 发往一个远端 worker 的推送端
//
// 每次非空 Give 编码为一个帧：帧头副本（Length 为负载长度）加
// encode(time) + encode(records)。
type observer[T, D any] struct {
	header types.MessageHeader
	target int
	env    codec.Envelope[T, D]
	sender *mailbox.Mailbox[types.Frame]

	// maxFrame 负载上限；超过上限的帧会让接收方断开整条链路
	maxFrame uint64

	reporter pkgif.DeliveryReporter

	time T
	open bool
}

var (
	_ pkgif.Observer[int, int] = (*observer[int, int])(nil)
	_ pkgif.Addressed          = (*observer[int, int])(nil)
)

// Target 返回目标 worker 全局编号
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

// Give 编码批次并放入出站队列
//
// 调用方的批次保持不变。出站队列已关闭或负载超过 maxFrame 时帧被丢弃。
func (o *observer[T, D]) Give(m *message.Message[D]) {
	if !o.open {
		panic(types.ErrNotOpen)
	}
	if m.Len() == 0 {
		return
	}

	payload := o.env.EncodeFrame(o.time, m.Records(), nil)
	h := o.header
	h.Length = uint64(len(payload))

	if o.maxFrame > 0 && h.Length > o.maxFrame {
		o.reporter.FrameDropped(h)
		logger.Warn("帧超过负载上限，已丢弃", "header", h.String(), "max", o.maxFrame)
		return
	}

	if o.sender.Send(types.Frame{Header: h, Payload: payload}) {
		o.reporter.FrameSent(h)
		return
	}
	o.reporter.FrameDropped(h)
	logger.Debug("链路已退出，丢弃帧", "header", h.String())
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
