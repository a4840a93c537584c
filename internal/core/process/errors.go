package process

import "errors"

var (
	// ErrInvalidPeers 进程内 worker 数无效
	ErrInvalidPeers = errors.New("process: peers must be positive")

	// ErrTypeMismatch 不同 worker 以不同类型分配同一通道
	ErrTypeMismatch = errors.New("process: channel type mismatch")
)
