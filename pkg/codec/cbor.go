package codec

import (
	"errors"
	"fmt"
	"io"

	cbor "github.com/fxamacker/cbor/v2"
)

type cborCodec[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// CBOR 返回任意类型的 CBOR 编解码器（RFC 8949 规范编码）
//
// 每个值编码为一个自定界的 CBOR 数据项，解码使用 UnmarshalFirst
// 返回剩余字节。值中包含不可编码的类型（chan、func）时 Encode 会 panic。
func CBOR[V any]() (Codec[V], error) {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor enc mode: %w", err)
	}
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("cbor dec mode: %w", err)
	}
	return cborCodec[V]{enc: em, dec: dm}, nil
}

// MustCBOR 同 CBOR，出错时 panic
//
// 仅用于初始化阶段或测试代码。
func MustCBOR[V any]() Codec[V] {
	c, err := CBOR[V]()
	if err != nil {
		panic(err)
	}
	return c
}

func (c cborCodec[V]) Encode(v V, buf []byte) []byte {
	b, err := c.enc.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("cbor encode %T: %w", v, err))
	}
	return append(buf, b...)
}

func (c cborCodec[V]) Decode(buf []byte) (V, []byte, error) {
	var v V
	rest, err := c.dec.UnmarshalFirst(buf, &v)
	if err != nil {
		var zero V
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return zero, buf, fmt.Errorf("%w: cbor: %v", ErrTruncated, err)
		}
		return zero, buf, fmt.Errorf("%w: cbor: %v", ErrMalformed, err)
	}
	return v, rest, nil
}
