// Package interfaces 定义 dfcomm 公共接口
//
// 本文件定义通信器与通道端点接口。
package interfaces

import "github.com/dep2p/go-dfcomm/pkg/message"

// ============================================================================
//                              Observer 推送端
// ============================================================================

// Observer 发往单个目标 worker 的推送端
//
// 每个时间戳 epoch 按 Open → Give* → Shut 调用；同一时刻只有一个打开的时间戳。
// 违反该顺序（重复 Open、未 Open 即 Give/Shut）是调用方缺陷，实现直接 panic。
// 所有方法都不阻塞在 I/O 上。
type Observer[T, D any] interface {
	// Open 打开时间戳 time
	Open(time T)

	// Give 发送一个批次；空批次被忽略
	Give(batch *message.Message[D])

	// Shut 关闭时间戳 time
	Shut(time T)
}

// Addressed 可报告目标 worker 的端点
type Addressed interface {
	// Target 返回目标 worker 全局编号
	Target() int
}

// ============================================================================
//                              Pullable 拉取端
// ============================================================================

// Pullable 通道的接收端
type Pullable[T, D any] interface {
	// Pull 非阻塞地取出下一个批次
	//
	// 没有数据时返回 false。返回的批次在下一次 Pull 前有效，
	// 调用方必须在再次调用 Pull 之前用完它。
	Pull() (T, *message.Message[D], bool)
}

// ============================================================================
//                              Communicator
// ============================================================================

// Communicator 通信器公共契约
//
// 通道分配是泛型操作，由各实现包的 NewChannel[T, D] 函数提供；
// 根包 dfcomm.NewChannel 按通信器类型分派。
type Communicator interface {
	// Index 返回本 worker 的全局编号
	Index() int

	// Peers 返回 worker 总数
	Peers() int
}

// LocalCommunicator 共享地址空间的 worker 之间的进程内通信器
//
// Allocate 为本 worker 分配下一个通道编号，并返回同一进程内所有 worker
// 在该编号上共享的对象：第一个到达的 worker 调用 build(Peers()) 创建，
// 其余 worker 取得同一对象。各 worker 必须以相同顺序分配通道。
type LocalCommunicator interface {
	Communicator

	// Allocate 分配下一个进程内通道
	Allocate(build func(peers int) any) any
}
