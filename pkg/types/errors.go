// Package types 定义 dfcomm 的基础类型
//
// 本文件定义所有公共错误类型。
package types

import "errors"

// ============================================================================
//                              帧头相关错误
// ============================================================================

var (
	// ErrShortHeader 帧头字节不足
	ErrShortHeader = errors.New("short message header")
)

// ============================================================================
//                              拓扑相关错误
// ============================================================================

var (
	// ErrInvalidTopology 拓扑参数无效
	ErrInvalidTopology = errors.New("invalid topology")

	// ErrWorkerOutOfRange worker 编号越界
	ErrWorkerOutOfRange = errors.New("worker index out of range")

	// ErrGroupOutOfRange 进程组编号越界
	ErrGroupOutOfRange = errors.New("group index out of range")
)

// ============================================================================
//                              端点协议错误
// ============================================================================
//
// 以下错误表示调用方缺陷，端点以 panic 抛出。

var (
	// ErrAlreadyOpen 上一个时间戳尚未 Shut 就再次 Open
	ErrAlreadyOpen = errors.New("observer already open")

	// ErrNotOpen 未 Open 即 Give 或 Shut
	ErrNotOpen = errors.New("observer not open")
)
