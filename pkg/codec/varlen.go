package codec

import (
	"errors"
	"fmt"

	"github.com/multiformats/go-varint"
)

// appendUvarint 追加 uvarint 编码
func appendUvarint(buf []byte, n uint64) []byte {
	start := len(buf)
	buf = append(buf, make([]byte, varint.UvarintSize(n))...)
	varint.PutUvarint(buf[start:], n)
	return buf
}

// consumeUvarint 解码 uvarint 前缀
func consumeUvarint(buf []byte) (uint64, []byte, error) {
	n, size, err := varint.FromUvarint(buf)
	if err != nil {
		if errors.Is(err, varint.ErrUnderflow) {
			return 0, buf, fmt.Errorf("%w: length prefix", ErrTruncated)
		}
		return 0, buf, fmt.Errorf("%w: length prefix: %v", ErrMalformed, err)
	}
	return n, buf[size:], nil
}

// consumeLength 解码长度前缀并检查剩余字节是否足够
func consumeLength(buf []byte) (int, []byte, error) {
	n, rest, err := consumeUvarint(buf)
	if err != nil {
		return 0, buf, err
	}
	if n > uint64(len(rest)) {
		return 0, buf, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, n, len(rest))
	}
	return int(n), rest, nil
}

// ============================================================================
//                              变长字节
// ============================================================================

type bytesCodec struct{}

// Bytes 返回 []byte 编解码器
//
// 解码结果直接引用输入缓冲区，不拷贝。
func Bytes() Codec[[]byte] { return bytesCodec{} }

func (bytesCodec) Encode(v []byte, buf []byte) []byte {
	buf = appendUvarint(buf, uint64(len(v)))
	return append(buf, v...)
}

func (bytesCodec) Decode(buf []byte) ([]byte, []byte, error) {
	n, rest, err := consumeLength(buf)
	if err != nil {
		return nil, buf, err
	}
	return rest[:n:n], rest[n:], nil
}

type stringCodec struct{}

// String 返回 string 编解码器
func String() Codec[string] { return stringCodec{} }

func (stringCodec) Encode(v string, buf []byte) []byte {
	buf = appendUvarint(buf, uint64(len(v)))
	return append(buf, v...)
}

func (stringCodec) Decode(buf []byte) (string, []byte, error) {
	n, rest, err := consumeLength(buf)
	if err != nil {
		return "", buf, err
	}
	return string(rest[:n]), rest[n:], nil
}
