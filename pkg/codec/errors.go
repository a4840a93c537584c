package codec

import "errors"

// ============================================================================
//                              错误定义
// ============================================================================

var (
	// ErrTruncated 输入在值结束前耗尽
	ErrTruncated = errors.New("codec: truncated input")

	// ErrMalformed 输入不是合法编码
	ErrMalformed = errors.New("codec: malformed input")
)
