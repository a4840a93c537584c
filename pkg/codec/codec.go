package codec

import "fmt"

// Codec 单一类型的编解码能力
type Codec[V any] interface {
	// Encode 将 v 编码追加到 buf，返回扩展后的切片
	Encode(v V, buf []byte) []byte

	// Decode 解码 buf 前缀，返回值与未消费的剩余字节
	Decode(buf []byte) (V, []byte, error)
}

// ============================================================================
//                              Envelope - 帧负载编解码
// ============================================================================

// Envelope 通道两端共享的（时间戳, 记录序列）编解码器
type Envelope[T, D any] struct {
	// Time 时间戳编解码器
	Time Codec[T]

	// Data 记录序列编解码器
	Data Codec[[]D]
}

// NewEnvelope 由时间戳与单条记录的编解码器构造 Envelope
func NewEnvelope[T, D any](time Codec[T], record Codec[D]) Envelope[T, D] {
	return Envelope[T, D]{
		Time: time,
		Data: Slice(record),
	}
}

// EncodeFrame 先编码时间戳再编码记录，追加到 buf
//
// 时间戳在前，接收方先解出时间戳，再把剩余字节作为记录视图。
func (e Envelope[T, D]) EncodeFrame(time T, records []D, buf []byte) []byte {
	buf = e.Time.Encode(time, buf)
	return e.Data.Encode(records, buf)
}

// DecodeTime 解码帧负载开头的时间戳，返回记录部分的起始偏移
func (e Envelope[T, D]) DecodeTime(buf []byte) (T, int, error) {
	t, rest, err := e.Time.Decode(buf)
	if err != nil {
		var zero T
		return zero, 0, fmt.Errorf("decode time: %w", err)
	}
	return t, len(buf) - len(rest), nil
}
