package network

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dfcomm/internal/core/mailbox"
	"github.com/dep2p/go-dfcomm/pkg/types"
)

// ============================================================================
// 辅助函数
// ============================================================================

func frame(graph, channel, source, target uint64, payload string) types.Frame {
	return types.Frame{
		Header: types.MessageHeader{
			Graph:   graph,
			Channel: channel,
			Source:  source,
			Target:  target,
			Length:  uint64(len(payload)),
		},
		Payload: []byte(payload),
	}
}

type runningLink struct {
	link *Link
	done chan error
}

func startLink(t *testing.T, ctx context.Context, remote int, conn net.Conn) *runningLink {
	t.Helper()
	l := NewLink(remote, conn, DefaultConfig())
	r := &runningLink{link: l, done: make(chan error, 1)}
	go func() { r.done <- l.Run(ctx) }()
	return r
}

func (r *runningLink) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-r.done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("link did not stop")
		return nil
	}
}

func recvPayload(t *testing.T, box *mailbox.Mailbox[[]byte]) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	buf, err := box.Recv(ctx)
	require.NoError(t, err)
	return string(buf)
}

// ============================================================================
// 收发测试
// ============================================================================

// TestLink_DeliversToRegisteredChannel 测试帧投递到已注册通道
func TestLink_DeliversToRegisteredChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, b := net.Pipe()
	left := startLink(t, ctx, 1, a)
	right := startLink(t, ctx, 0, b)

	id := types.ChannelIdentity{Worker: 1, Graph: 0, Channel: 7}
	inbound := mailbox.New[[]byte]()
	require.True(t, right.link.Handles().Readers.Send(ReaderRegistration{ID: id, Inbound: inbound}))

	h := left.link.Handles()
	require.True(t, h.Writers.Send(WriterRegistration{ID: id}))
	require.True(t, h.Sender.Send(frame(0, 7, 0, 1, "alpha")))
	require.True(t, h.Sender.Send(frame(0, 7, 0, 1, "beta")))

	assert.Equal(t, "alpha", recvPayload(t, inbound))
	assert.Equal(t, "beta", recvPayload(t, inbound))

	cancel()
	assert.NoError(t, left.wait(t))
	assert.NoError(t, right.wait(t))
}

// TestLink_ParksUntilRegistered 测试注册前到达的帧被暂存并按序补投
func TestLink_ParksUntilRegistered(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, b := net.Pipe()
	left := startLink(t, ctx, 1, a)
	right := startLink(t, ctx, 0, b)

	h := left.link.Handles()
	for _, p := range []string{"one", "two", "three"} {
		require.True(t, h.Sender.Send(frame(0, 3, 0, 2, p)))
	}

	require.Eventually(t, func() bool {
		return right.link.Stats().Pending == 3
	}, 5*time.Second, 5*time.Millisecond)

	id := types.ChannelIdentity{Worker: 2, Graph: 0, Channel: 3}
	inbound := mailbox.New[[]byte]()
	require.True(t, right.link.Handles().Readers.Send(ReaderRegistration{ID: id, Inbound: inbound}))
	require.True(t, h.Sender.Send(frame(0, 3, 0, 2, "four")))

	for _, want := range []string{"one", "two", "three", "four"} {
		assert.Equal(t, want, recvPayload(t, inbound))
	}
	assert.Equal(t, 0, right.link.Stats().Pending)
	assert.Equal(t, 1, right.link.Stats().Routes)
}

// TestLink_RoutesByTargetAndChannel 测试按（目标, 图, 通道）分流
func TestLink_RoutesByTargetAndChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, b := net.Pipe()
	left := startLink(t, ctx, 1, a)
	right := startLink(t, ctx, 0, b)

	boxes := map[types.ChannelIdentity]*mailbox.Mailbox[[]byte]{
		{Worker: 2, Graph: 0, Channel: 0}: mailbox.New[[]byte](),
		{Worker: 3, Graph: 0, Channel: 0}: mailbox.New[[]byte](),
		{Worker: 2, Graph: 1, Channel: 0}: mailbox.New[[]byte](),
	}
	for id, box := range boxes {
		require.True(t, right.link.Handles().Readers.Send(ReaderRegistration{ID: id, Inbound: box}))
	}

	h := left.link.Handles()
	require.True(t, h.Sender.Send(frame(1, 0, 0, 2, "g1")))
	require.True(t, h.Sender.Send(frame(0, 0, 0, 3, "w3")))
	require.True(t, h.Sender.Send(frame(0, 0, 0, 2, "w2")))

	assert.Equal(t, "w2", recvPayload(t, boxes[types.ChannelIdentity{Worker: 2, Graph: 0, Channel: 0}]))
	assert.Equal(t, "w3", recvPayload(t, boxes[types.ChannelIdentity{Worker: 3, Graph: 0, Channel: 0}]))
	assert.Equal(t, "g1", recvPayload(t, boxes[types.ChannelIdentity{Worker: 2, Graph: 1, Channel: 0}]))
}

// TestLink_EmptyPayload 测试零长度负载原样传输
func TestLink_EmptyPayload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, b := net.Pipe()
	left := startLink(t, ctx, 1, a)
	right := startLink(t, ctx, 0, b)

	id := types.ChannelIdentity{Worker: 0, Graph: 0, Channel: 0}
	inbound := mailbox.New[[]byte]()
	require.True(t, right.link.Handles().Readers.Send(ReaderRegistration{ID: id, Inbound: inbound}))
	require.True(t, left.link.Handles().Sender.Send(frame(0, 0, 1, 0, "")))

	assert.Equal(t, "", recvPayload(t, inbound))
}

// ============================================================================
// 关闭与错误
// ============================================================================

// TestLink_RemoteClose 测试对端关闭后链路正常退出且队列关闭
func TestLink_RemoteClose(t *testing.T) {
	a, b := net.Pipe()
	left := startLink(t, context.Background(), 1, a)

	require.NoError(t, b.Close())
	assert.NoError(t, left.wait(t))

	h := left.link.Handles()
	assert.True(t, h.Sender.Closed())
	assert.False(t, h.Sender.Send(frame(0, 0, 0, 1, "late")))
	assert.False(t, h.Readers.Send(ReaderRegistration{}))
}

// TestLink_CancelStops 测试取消 ctx 停止链路
func TestLink_CancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a, b := net.Pipe()
	defer b.Close()

	left := startLink(t, ctx, 1, a)
	cancel()

	assert.NoError(t, left.wait(t))
	assert.True(t, left.link.Handles().Writers.Closed())
}

// TestLink_FrameTooLarge 测试超限帧终止链路
func TestLink_FrameTooLarge(t *testing.T) {
	a, b := net.Pipe()
	l := NewLink(1, a, Config{MaxFrameSize: 4, WriteBufferSize: 1024, ReadBufferSize: 1024})
	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()

	h := types.MessageHeader{Target: 0, Length: 5}
	go func() {
		buf, _ := h.MarshalBinary()
		_, _ = b.Write(append(buf, "hello"...))
	}()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, ErrFrameTooLarge))
	case <-time.After(5 * time.Second):
		t.Fatal("link did not stop")
	}
	_ = b.Close()
}

// TestLink_TruncatedFrame 测试帧中断开视为错误
func TestLink_TruncatedFrame(t *testing.T) {
	a, b := net.Pipe()
	l := NewLink(1, a, DefaultConfig())
	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()

	h := types.MessageHeader{Target: 0, Length: 10}
	buf, _ := h.MarshalBinary()
	_, err := b.Write(append(buf, "abc"...))
	require.NoError(t, err)
	require.NoError(t, b.Close())

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, ErrTruncatedFrame))
	case <-time.After(5 * time.Second):
		t.Fatal("link did not stop")
	}
}

// TestLink_LengthMismatch 测试出站帧头与负载不一致时终止
func TestLink_LengthMismatch(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()
	go func() { _, _ = io.Copy(io.Discard, b) }()

	l := NewLink(1, a, DefaultConfig())
	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()

	f := frame(0, 0, 0, 1, "abc")
	f.Header.Length = 9
	require.True(t, l.Handles().Sender.Send(f))

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, ErrLengthMismatch))
	case <-time.After(5 * time.Second):
		t.Fatal("link did not stop")
	}
}

// TestLink_RunTwice 测试重复运行被拒绝
func TestLink_RunTwice(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a, b := net.Pipe()
	defer b.Close()

	r := startLink(t, ctx, 1, a)
	require.Eventually(t, func() bool { return r.link.running.Load() }, time.Second, time.Millisecond)
	assert.Error(t, r.link.Run(ctx))

	cancel()
	assert.NoError(t, r.wait(t))
}

// TestLink_WriterRegistrationRecorded 测试写侧注册被记录
func TestLink_WriterRegistrationRecorded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a, b := net.Pipe()
	defer b.Close()

	r := startLink(t, ctx, 1, a)
	h := r.link.Handles()
	require.True(t, h.Writers.Send(WriterRegistration{ID: types.ChannelIdentity{Worker: 3}}))
	require.True(t, h.Writers.Send(WriterRegistration{ID: types.ChannelIdentity{Worker: 4}}))

	require.Eventually(t, func() bool {
		return r.link.Stats().Channels == 2
	}, 5*time.Second, 5*time.Millisecond)
	assert.NotEqual(t, r.link.ID(), NewLink(0, b, DefaultConfig()).ID())
}
