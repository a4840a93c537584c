// Package binary 实现跨进程的二进制通信器
//
// Binary 包装一个进程内通信器，为本 worker 增加到其他进程组的推送端：
// 记录批次被编码为（时间戳, 记录）负载，加上 40 字节帧头后放入对应链路的
// 出站队列；接收方按（目标 worker, 图, 通道）分流到通道入站队列，
// 由拉取端解码为批次视图。
//
// # 编号
//
// 集群由 Groups 个进程组组成，每组 InnerPeers 个 worker，全局编号为
// group*InnerPeers + offset。NewChannel 返回的推送端切片按全局编号排列，
// 长度等于 Peers()，本组 worker 位于 [group*InnerPeers, (group+1)*InnerPeers)。
//
// # 协议约束
//
// 推送端每个时间戳按 Open → Give* → Shut 调用。违反顺序、收到空帧、
// 帧负载无法解码都是不可恢复的协议错误，直接 panic。
//
// # 投递语义
//
// 向已退出的对端发送是尽力而为的：帧与注册被丢弃，不返回错误，
// 只通过 DeliveryReporter 统计。
//
// # 并发
//
// Binary 及其端点不是并发安全的，每个 Binary 只属于一个 worker goroutine。
// 出站队列被同一进程的多个 worker 共享（多生产者），入站队列只有一个读线程
// 与一个拉取端。
package binary
