package dfcomm

import "errors"

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 节点生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted 节点未启动
	ErrNotStarted = errors.New("node not started")

	// ErrAlreadyStarted 节点已启动
	ErrAlreadyStarted = errors.New("node already started")

	// ErrNodeClosed 节点已关闭
	ErrNodeClosed = errors.New("node closed")

	// ────────────────────────────────────────────────────────────────────────
	// 构造错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrConnCount 连接数与远端进程数不一致
	ErrConnCount = errors.New("connection count does not match remote processes")

	// ErrUnsupportedCommunicator 通信器类型不支持分配通道
	ErrUnsupportedCommunicator = errors.New("unsupported communicator")

	// ErrWorkerIndex worker 编号超出范围
	ErrWorkerIndex = errors.New("worker index out of range")
)
