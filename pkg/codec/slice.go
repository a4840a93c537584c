package codec

import "fmt"

// ============================================================================
//                              Slice - 记录序列
// ============================================================================

type sliceCodec[D any] struct {
	elem Codec[D]
}

// Slice 返回序列编解码器：uvarint 元素个数后接逐个元素
func Slice[D any](elem Codec[D]) Codec[[]D] {
	return sliceCodec[D]{elem: elem}
}

func (c sliceCodec[D]) Encode(v []D, buf []byte) []byte {
	buf = appendUvarint(buf, uint64(len(v)))
	for _, d := range v {
		buf = c.elem.Encode(d, buf)
	}
	return buf
}

func (c sliceCodec[D]) Decode(buf []byte) ([]D, []byte, error) {
	n, rest, err := consumeUvarint(buf)
	if err != nil {
		return nil, buf, err
	}
	// 元素可以是零宽的，个数只用于限制预分配，截断由元素解码报告
	out := make([]D, 0, int(min(n, uint64(len(rest)))))
	for i := uint64(0); i < n; i++ {
		var d D
		d, rest, err = c.elem.Decode(rest)
		if err != nil {
			return nil, buf, fmt.Errorf("element %d/%d: %w", i, n, err)
		}
		out = append(out, d)
	}
	return out, rest, nil
}

// ============================================================================
//                              Pair - 二元组
// ============================================================================

// Pair 二元组记录，常用于 (key, value) 数据
type Pair[A, B any] struct {
	First  A
	Second B
}

type pairCodec[A, B any] struct {
	first  Codec[A]
	second Codec[B]
}

// PairOf 返回二元组编解码器
func PairOf[A, B any](first Codec[A], second Codec[B]) Codec[Pair[A, B]] {
	return pairCodec[A, B]{first: first, second: second}
}

func (c pairCodec[A, B]) Encode(v Pair[A, B], buf []byte) []byte {
	buf = c.first.Encode(v.First, buf)
	return c.second.Encode(v.Second, buf)
}

func (c pairCodec[A, B]) Decode(buf []byte) (Pair[A, B], []byte, error) {
	var p Pair[A, B]
	a, rest, err := c.first.Decode(buf)
	if err != nil {
		return p, buf, err
	}
	b, rest, err := c.second.Decode(rest)
	if err != nil {
		return p, buf, err
	}
	p.First, p.Second = a, b
	return p, rest, nil
}
