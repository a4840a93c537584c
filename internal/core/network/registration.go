package network

import (
	"github.com/dep2p/go-dfcomm/internal/core/mailbox"
	"github.com/dep2p/go-dfcomm/pkg/types"
)

// WriterRegistration 写侧通道注册
//
// 只通知写线程有新通道，无需应答。
type WriterRegistration struct {
	ID types.ChannelIdentity
}

// ReaderRegistration 读侧通道注册
//
// Inbound 是该通道的入站队列，所有远端链路都向同一个队列投递。
type ReaderRegistration struct {
	ID      types.ChannelIdentity
	Inbound *mailbox.Mailbox[[]byte]
}

// Handles worker 侧持有的一条链路的队列句柄
type Handles struct {
	// Writers 写侧注册队列
	Writers *mailbox.Mailbox[WriterRegistration]

	// Readers 读侧注册队列
	Readers *mailbox.Mailbox[ReaderRegistration]

	// Sender 出站帧队列
	Sender *mailbox.Mailbox[types.Frame]
}

// NewHandles 创建一组新队列
func NewHandles() Handles {
	return Handles{
		Writers: mailbox.New[WriterRegistration](),
		Readers: mailbox.New[ReaderRegistration](),
		Sender:  mailbox.New[types.Frame](),
	}
}

// Close 关闭全部队列
func (h Handles) Close() {
	h.Writers.Close()
	h.Readers.Close()
	h.Sender.Close()
}
