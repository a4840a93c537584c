package binary

import (
	"fmt"

	"github.com/dep2p/go-dfcomm/internal/core/mailbox"
	"github.com/dep2p/go-dfcomm/pkg/codec"
	pkgif "github.com/dep2p/go-dfcomm/pkg/interfaces"
	"github.com/dep2p/go-dfcomm/pkg/message"
	"github.com/dep2p/go-dfcomm/pkg/types"
)

// ============================================================================
//                              pullable 合并拉取端
// ============================================================================

// pullable 合并进程内拉取端与网络入站队列
//
// 进程内数据优先。最多持有一个已解码批次，每次 Pull 替换。
type pullable[T, D any] struct {
	local   pkgif.Pullable[T, D]
	inbound *mailbox.Mailbox[[]byte]
	env     codec.Envelope[T, D]
	id      types.ChannelIdentity

	reporter pkgif.DeliveryReporter

	time    T
	current *message.Message[D]
}

var _ pkgif.Pullable[int, int] = (*pullable[int, int])(nil)

// Pull 非阻塞地取出下一个批次
//
// 帧为空或无法解码时 panic。
func (p *pullable[T, D]) Pull() (T, *message.Message[D], bool) {
	if t, m, ok := p.local.Pull(); ok {
		p.current = nil
		return t, m, true
	}

	buf, ok := p.inbound.TryRecv()
	if !ok {
		var zero T
		p.time = zero
		p.current = nil
		return zero, nil, false
	}

	t, offset, err := p.env.DecodeTime(buf)
	if err != nil {
		panic(fmt.Errorf("%w: %s: %w", ErrCorruptFrame, p.id, err))
	}
	m := message.FromBytes(buf, offset, p.env.Data)
	if err := m.Decode(); err != nil {
		panic(fmt.Errorf("%w: %s: %w", ErrCorruptFrame, p.id, err))
	}
	if m.Len() == 0 {
		panic(fmt.Errorf("%w: %s", ErrEmptyFrame, p.id))
	}

	p.reporter.FrameReceived(p.id, len(buf))
	p.time = t
	p.current = m
	return p.time, p.current, true
}
