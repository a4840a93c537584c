// Package mailbox 实现无界多生产者队列
//
// Mailbox 是推送端与网络线程之间、网络线程与拉取端之间的队列：
//   - Send 从不阻塞；队列关闭后返回 false（对端已退出，调用方自行决定是否丢弃）
//   - TryRecv 非阻塞接收，供 worker 轮询循环使用
//   - Recv 阻塞接收，供网络线程使用，关闭且排空后返回 ErrClosed
//
// 同一队列内的元素严格按 Send 的先后顺序出队。
package mailbox

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed 队列已关闭且已排空
var ErrClosed = errors.New("mailbox closed")

// compactThreshold 头部空洞超过该长度时整理底层切片
const compactThreshold = 64

// Mailbox 无界 FIFO 队列
type Mailbox[V any] struct {
	mu     sync.Mutex
	items  []V
	head   int
	closed bool

	// notify 容量为 1，有新元素或关闭时写入
	notify chan struct{}
}

// New 创建队列
func New[V any]() *Mailbox[V] {
	return &Mailbox[V]{
		notify: make(chan struct{}, 1),
	}
}

// Send 入队
//
// 队列已关闭时返回 false，元素被丢弃。
func (m *Mailbox[V]) Send(v V) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	m.items = append(m.items, v)
	m.mu.Unlock()

	m.signal()
	return true
}

// TryRecv 非阻塞出队
func (m *Mailbox[V]) TryRecv() (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.popLocked()
}

// Recv 阻塞出队，直到有元素、队列关闭且排空、或 ctx 结束
func (m *Mailbox[V]) Recv(ctx context.Context) (V, error) {
	for {
		m.mu.Lock()
		v, ok := m.popLocked()
		closed := m.closed
		m.mu.Unlock()

		if ok {
			return v, nil
		}
		if closed {
			var zero V
			return zero, ErrClosed
		}

		select {
		case <-m.notify:
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
	}
}

// Close 关闭队列
//
// 已入队的元素仍可被接收。Close 可以多次调用。
func (m *Mailbox[V]) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.signal()
}

// Closed 检查队列是否已关闭
func (m *Mailbox[V]) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Len 返回待接收元素数
func (m *Mailbox[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items) - m.head
}

func (m *Mailbox[V]) popLocked() (V, bool) {
	var zero V
	if m.head == len(m.items) {
		return zero, false
	}
	v := m.items[m.head]
	m.items[m.head] = zero
	m.head++

	switch {
	case m.head == len(m.items):
		m.items = m.items[:0]
		m.head = 0
	case m.head >= compactThreshold && m.head*2 >= len(m.items):
		n := copy(m.items, m.items[m.head:])
		clear(m.items[n:])
		m.items = m.items[:n]
		m.head = 0
	}
	return v, true
}

func (m *Mailbox[V]) signal() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}
