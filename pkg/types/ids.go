package types

import "fmt"

// ============================================================================
//                              ChannelIdentity - 通道标识
// ============================================================================

// ChannelIdentity 逻辑通道标识
//
// 用于向网络线程注册逻辑通道。Channel 是 worker 本地单调递增的分配计数器，
// 在 worker 生命周期内永不复用；同一数据流图中所有 worker 以相同顺序分配通道，
// 因此相同的 Channel 值在各 worker 上指向同一个逻辑通道。
type ChannelIdentity struct {
	// Worker 注册该通道的 worker 全局编号
	Worker int

	// Graph 数据流图标识
	Graph uint64

	// Channel 通道编号
	Channel uint64
}

// String 返回便于日志阅读的表示
func (id ChannelIdentity) String() string {
	return fmt.Sprintf("w%d/g%d/c%d", id.Worker, id.Graph, id.Channel)
}
