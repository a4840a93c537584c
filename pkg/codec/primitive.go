package codec

import (
	"encoding/binary"
	"fmt"
)

// ============================================================================
//                              定长整数
// ============================================================================

type uint64Codec struct{}

// Uint64 返回 8 字节小端 uint64 编解码器
func Uint64() Codec[uint64] { return uint64Codec{} }

func (uint64Codec) Encode(v uint64, buf []byte) []byte {
	return binary.LittleEndian.AppendUint64(buf, v)
}

func (uint64Codec) Decode(buf []byte) (uint64, []byte, error) {
	if len(buf) < 8 {
		return 0, buf, fmt.Errorf("%w: uint64 needs 8 bytes, have %d", ErrTruncated, len(buf))
	}
	return binary.LittleEndian.Uint64(buf), buf[8:], nil
}

type int64Codec struct{}

// Int64 返回 8 字节小端 int64 编解码器
func Int64() Codec[int64] { return int64Codec{} }

func (int64Codec) Encode(v int64, buf []byte) []byte {
	return binary.LittleEndian.AppendUint64(buf, uint64(v))
}

func (int64Codec) Decode(buf []byte) (int64, []byte, error) {
	u, rest, err := uint64Codec{}.Decode(buf)
	return int64(u), rest, err
}

type intCodec struct{}

// Int 返回 int 编解码器（线上固定 8 字节）
func Int() Codec[int] { return intCodec{} }

func (intCodec) Encode(v int, buf []byte) []byte {
	return binary.LittleEndian.AppendUint64(buf, uint64(int64(v)))
}

func (intCodec) Decode(buf []byte) (int, []byte, error) {
	u, rest, err := uint64Codec{}.Decode(buf)
	return int(int64(u)), rest, err
}

type boolCodec struct{}

// Bool 返回单字节 bool 编解码器
func Bool() Codec[bool] { return boolCodec{} }

func (boolCodec) Encode(v bool, buf []byte) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

func (boolCodec) Decode(buf []byte) (bool, []byte, error) {
	if len(buf) < 1 {
		return false, buf, fmt.Errorf("%w: bool", ErrTruncated)
	}
	switch buf[0] {
	case 0:
		return false, buf[1:], nil
	case 1:
		return true, buf[1:], nil
	default:
		return false, buf, fmt.Errorf("%w: bool byte 0x%02x", ErrMalformed, buf[0])
	}
}
