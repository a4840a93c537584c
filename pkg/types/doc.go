// Package types 定义 dfcomm 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 dfcomm 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - ids.go       - ChannelIdentity 通道标识
//   - header.go    - MessageHeader 帧头（固定 40 字节线格式）、Frame
//   - topology.go  - Topology 全局 worker 编号与（进程组, 组内偏移）之间的双射
//   - errors.go    - 公共错误定义
//
// # 编号约定
//
// 全局 worker 编号按进程组连续排列：
//
//	worker = group * innerPeers + offset
//
// 每个 worker 与除自身所在组以外的每个进程组各有一条物理连接，
// 连接按 slot 编号（跳过自身组），参见 Topology.GroupOfSlot。
package types
