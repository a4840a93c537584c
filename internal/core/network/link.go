package network

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-dfcomm/internal/core/mailbox"
	"github.com/dep2p/go-dfcomm/pkg/lib/log"
	"github.com/dep2p/go-dfcomm/pkg/types"
)

var logger = log.Logger("core/network")

// Link 通往一个远端进程组的链路
type Link struct {
	id      uuid.UUID
	remote  int
	conn    io.ReadWriteCloser
	cfg     Config
	handles Handles

	mu       sync.Mutex
	routes   map[types.ChannelIdentity]*mailbox.Mailbox[[]byte]
	pending  map[types.ChannelIdentity][][]byte
	channels map[types.ChannelIdentity]struct{}

	framesWritten atomic.Uint64
	framesRead    atomic.Uint64

	running   atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewLink 在已建立的连接上创建链路
//
// remote 是远端进程组编号，仅用于日志与诊断。
func NewLink(remote int, conn io.ReadWriteCloser, cfg Config) *Link {
	if cfg.WriteBufferSize <= 0 || cfg.ReadBufferSize <= 0 || cfg.MaxFrameSize == 0 {
		def := DefaultConfig()
		if cfg.WriteBufferSize <= 0 {
			cfg.WriteBufferSize = def.WriteBufferSize
		}
		if cfg.ReadBufferSize <= 0 {
			cfg.ReadBufferSize = def.ReadBufferSize
		}
		if cfg.MaxFrameSize == 0 {
			cfg.MaxFrameSize = def.MaxFrameSize
		}
	}
	return &Link{
		id:       uuid.New(),
		remote:   remote,
		conn:     conn,
		cfg:      cfg,
		handles:  NewHandles(),
		routes:   make(map[types.ChannelIdentity]*mailbox.Mailbox[[]byte]),
		pending:  make(map[types.ChannelIdentity][][]byte),
		channels: make(map[types.ChannelIdentity]struct{}),
	}
}

// ID 返回链路会话标识
func (l *Link) ID() uuid.UUID {
	return l.id
}

// Remote 返回远端进程组编号
func (l *Link) Remote() int {
	return l.remote
}

// Handles 返回供 worker 使用的队列句柄
func (l *Link) Handles() Handles {
	return l.handles
}

// Stats 链路统计
type Stats struct {
	FramesWritten uint64
	FramesRead    uint64
	Channels      int
	Routes        int
	Pending       int
}

// Stats 返回链路统计快照
func (l *Link) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	pending := 0
	for _, frames := range l.pending {
		pending += len(frames)
	}
	return Stats{
		FramesWritten: l.framesWritten.Load(),
		FramesRead:    l.framesRead.Load(),
		Channels:      len(l.channels),
		Routes:        len(l.routes),
		Pending:       pending,
	}
}

// ============================================================================
//                              运行
// ============================================================================

// Run 运行链路直到 ctx 结束、对端关闭连接或 I/O 出错
//
// ctx 结束或对端正常关闭时返回 nil。返回前关闭全部队列和连接。
func (l *Link) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("network: link already running")
	}

	lg := logger.With("link", l.id.String(), "remote", l.remote)
	lg.Debug("链路启动")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return l.writeLoop(gctx) })
	g.Go(l.readLoop)
	g.Go(func() error { return l.readerRegistrations(gctx) })
	g.Go(func() error { return l.writerRegistrations(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		return l.Close()
	})

	err := g.Wait()
	switch {
	case ctx.Err() != nil:
		lg.Debug("链路停止")
		return nil
	case errors.Is(err, ErrRemoteClosed):
		lg.Info("对端关闭链路")
		return nil
	case err != nil:
		lg.Warn("链路异常退出", "error", err)
		return fmt.Errorf("link to group %d: %w", l.remote, err)
	}
	return nil
}

// Close 关闭队列与连接
//
// 关闭后 worker 侧的发送与注册被丢弃。可以多次调用。
func (l *Link) Close() error {
	l.closeOnce.Do(func() {
		l.handles.Close()
		l.closeErr = multierr.Append(l.closeErr, l.conn.Close())
	})
	return l.closeErr
}

// ============================================================================
//                              写循环
// ============================================================================

func (l *Link) writeLoop(ctx context.Context) error {
	w := bufio.NewWriterSize(l.conn, l.cfg.WriteBufferSize)
	hdr := make([]byte, 0, types.HeaderSize)

	for {
		f, err := l.handles.Sender.Recv(ctx)
		if err != nil {
			// ctx 结束或队列已关闭
			return nil
		}
		if f.Header.Length != uint64(len(f.Payload)) {
			return fmt.Errorf("%w: header %d, payload %d", ErrLengthMismatch, f.Header.Length, len(f.Payload))
		}

		hdr = f.Header.AppendBinary(hdr[:0])
		if _, err := w.Write(hdr); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		if _, err := w.Write(f.Payload); err != nil {
			return fmt.Errorf("write payload: %w", err)
		}
		l.framesWritten.Add(1)

		if l.handles.Sender.Len() == 0 {
			if err := w.Flush(); err != nil {
				return fmt.Errorf("flush: %w", err)
			}
		}
	}
}

// ============================================================================
//                              读循环
// ============================================================================

func (l *Link) readLoop() error {
	r := bufio.NewReaderSize(l.conn, l.cfg.ReadBufferSize)
	hdr := make([]byte, types.HeaderSize)

	for {
		if _, err := io.ReadFull(r, hdr); err != nil {
			if errors.Is(err, io.EOF) {
				return ErrRemoteClosed
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w: inside header", ErrTruncatedFrame)
			}
			return fmt.Errorf("read header: %w", err)
		}

		var h types.MessageHeader
		if err := h.UnmarshalBinary(hdr); err != nil {
			return err
		}
		if h.Length > l.cfg.MaxFrameSize {
			return fmt.Errorf("%w: %d > %d (%s)", ErrFrameTooLarge, h.Length, l.cfg.MaxFrameSize, h)
		}

		payload := make([]byte, h.Length)
		if _, err := io.ReadFull(r, payload); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w: %s", ErrTruncatedFrame, h)
			}
			return fmt.Errorf("read payload: %w", err)
		}
		l.framesRead.Add(1)
		l.deliver(h, payload)
	}
}

// deliver 将负载投递到通道入站队列，未注册时暂存
func (l *Link) deliver(h types.MessageHeader, payload []byte) {
	key := h.RouteKey()

	l.mu.Lock()
	inbound, ok := l.routes[key]
	if !ok {
		l.pending[key] = append(l.pending[key], payload)
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()

	inbound.Send(payload)
}

// ============================================================================
//                              注册循环
// ============================================================================

func (l *Link) readerRegistrations(ctx context.Context) error {
	for {
		reg, err := l.handles.Readers.Recv(ctx)
		if err != nil {
			return nil
		}

		l.mu.Lock()
		l.routes[reg.ID] = reg.Inbound
		// 在锁内补投，保证先于之后直接投递的帧
		parked := l.pending[reg.ID]
		delete(l.pending, reg.ID)
		for _, payload := range parked {
			reg.Inbound.Send(payload)
		}
		l.mu.Unlock()

		logger.Debug("读侧通道已注册", "link", l.id.String(), "channel", reg.ID.String(), "parked", len(parked))
	}
}

func (l *Link) writerRegistrations(ctx context.Context) error {
	for {
		reg, err := l.handles.Writers.Recv(ctx)
		if err != nil {
			return nil
		}

		l.mu.Lock()
		l.channels[reg.ID] = struct{}{}
		l.mu.Unlock()

		logger.Debug("写侧通道已注册", "link", l.id.String(), "channel", reg.ID.String())
	}
}
