package codec

import (
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
)

type protoCodec[M proto.Message] struct {
	newFn func() M
	mo    proto.MarshalOptions
	uo    proto.UnmarshalOptions
}

// Proto 返回 protobuf 消息编解码器
//
// 每条消息以 protowire 长度前缀定界，确定性序列化。newFn 为解码
// 分配新消息，例如 func() *wrapperspb.Int64Value { return new(wrapperspb.Int64Value) }。
func Proto[M proto.Message](newFn func() M) Codec[M] {
	return protoCodec[M]{
		newFn: newFn,
		mo:    proto.MarshalOptions{Deterministic: true},
		uo:    proto.UnmarshalOptions{},
	}
}

func (c protoCodec[M]) Encode(m M, buf []byte) []byte {
	b, err := c.mo.Marshal(m)
	if err != nil {
		panic(fmt.Errorf("protobuf encode %T: %w", m, err))
	}
	return protowire.AppendBytes(buf, b)
}

func (c protoCodec[M]) Decode(buf []byte) (M, []byte, error) {
	var zero M
	b, n := protowire.ConsumeBytes(buf)
	if n < 0 {
		err := protowire.ParseError(n)
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return zero, buf, fmt.Errorf("%w: protobuf: %v", ErrTruncated, err)
		}
		return zero, buf, fmt.Errorf("%w: protobuf: %v", ErrMalformed, err)
	}
	m := c.newFn()
	if err := c.uo.Unmarshal(b, m); err != nil {
		return zero, buf, fmt.Errorf("%w: protobuf: %v", ErrMalformed, err)
	}
	return m, buf[n:], nil
}
