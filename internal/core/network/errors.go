package network

import "errors"

// ============================================================================
//                              错误定义
// ============================================================================

var (
	// ErrFrameTooLarge 入站帧超过 MaxFrameSize
	ErrFrameTooLarge = errors.New("network: frame too large")

	// ErrLengthMismatch 出站帧头 Length 与负载长度不一致
	ErrLengthMismatch = errors.New("network: header length mismatch")

	// ErrRemoteClosed 对端关闭了连接
	ErrRemoteClosed = errors.New("network: remote closed connection")

	// ErrTruncatedFrame 连接在帧中间断开
	ErrTruncatedFrame = errors.New("network: truncated frame")
)
