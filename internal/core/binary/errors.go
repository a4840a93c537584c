package binary

import "errors"

// ============================================================================
//                              错误定义
// ============================================================================

var (
	// ErrEmptyFrame 收到不含记录的帧
	ErrEmptyFrame = errors.New("binary: received empty frame")

	// ErrCorruptFrame 帧负载无法解码
	ErrCorruptFrame = errors.New("binary: corrupt frame")
)

// 配置错误
var (
	// ErrNilInner 未提供进程内通信器
	ErrNilInner = errors.New("binary: nil inner communicator")

	// ErrLinkCount 链路数与远端进程组数不一致
	ErrLinkCount = errors.New("binary: link count does not match remote groups")
)
