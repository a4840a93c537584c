// Package message 定义在通道上传递的记录批次
//
// Message[D] 有两种形态：
//   - 自有记录：发送方新产生的记录（FromRecords / Push）
//   - 字节视图：接收方收到的帧负载中从某偏移开始的字节区间（FromBytes），
//     在首次访问时由 Codec 解码，原始字节始终可由 Bytes() 取得
//
// 推送端从不发送空批次，拉取端据此断言收到的批次非空。
package message

import (
	"fmt"

	"github.com/dep2p/go-dfcomm/pkg/codec"
)

// Message 记录批次
//
// 零值是可用的空批次。非并发安全：一个批次在任一时刻只属于一个 worker。
type Message[D any] struct {
	records []D

	// 字节视图
	raw     []byte
	codec   codec.Codec[[]D]
	decoded bool
	err     error
}

// New 创建空批次
func New[D any]() *Message[D] {
	return &Message[D]{decoded: true}
}

// FromRecords 以自有记录创建批次（不拷贝）
func FromRecords[D any](records []D) *Message[D] {
	return &Message[D]{records: records, decoded: true}
}

// FromBytes 以 buf[offset:] 为记录序列的字节视图创建批次
//
// 解码推迟到首次访问；buf 由批次持有直到被丢弃。
func FromBytes[D any](buf []byte, offset int, c codec.Codec[[]D]) *Message[D] {
	return &Message[D]{raw: buf[offset:], codec: c}
}

// Decode 解码字节视图
//
// 已解码或自有记录的批次（包括零值 Message）直接返回 nil。解码失败的错误
// 会被记住，之后每次调用返回同一错误。
func (m *Message[D]) Decode() error {
	if m.decoded || m.codec == nil {
		return m.err
	}
	m.decoded = true
	records, rest, err := m.codec.Decode(m.raw)
	if err != nil {
		m.err = fmt.Errorf("decode records: %w", err)
		return m.err
	}
	if len(rest) != 0 {
		m.err = fmt.Errorf("%w: %d trailing bytes after records", codec.ErrMalformed, len(rest))
		return m.err
	}
	m.records = records
	return nil
}

// mustDecode 访问记录前确保已解码
func (m *Message[D]) mustDecode() {
	if err := m.Decode(); err != nil {
		panic(err)
	}
}

// Len 返回记录数
//
// 字节视图解码失败时 panic（帧已损坏）。
func (m *Message[D]) Len() int {
	m.mustDecode()
	return len(m.records)
}

// IsEmpty 检查批次是否为空
func (m *Message[D]) IsEmpty() bool {
	return m.Len() == 0
}

// Records 返回记录切片
//
// 返回的切片在批次被复用或丢弃前有效。
func (m *Message[D]) Records() []D {
	m.mustDecode()
	return m.records
}

// Push 追加一条记录
func (m *Message[D]) Push(d D) {
	m.mustDecode()
	m.records = append(m.records, d)
}

// Clear 清空记录，保留底层存储以便复用
func (m *Message[D]) Clear() {
	m.mustDecode()
	m.records = m.records[:0]
	m.raw = nil
}

// Take 取走全部记录，批次变为空
func (m *Message[D]) Take() []D {
	m.mustDecode()
	records := m.records
	m.records = nil
	m.raw = nil
	return records
}

// Bytes 返回字节视图的原始字节；自有记录批次返回 nil
func (m *Message[D]) Bytes() []byte {
	return m.raw
}

// IsView 检查批次是否由字节视图构造
func (m *Message[D]) IsView() bool {
	return m.codec != nil
}
