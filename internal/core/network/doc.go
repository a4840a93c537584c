// Package network 实现每个远端进程组一条的网络链路
//
// Link 持有一条已建立的可靠有序字节流（net.Conn、net.Pipe 等），并在其上运行：
//   - 写循环：排空出站队列，逐帧写出 帧头(40 字节) + 负载，队列空闲时 flush
//   - 读循环：读帧头与负载，按 (目标 worker, 图, 通道) 投递到通道的入站队列；
//     通道尚未注册时暂存，注册到达后按原顺序补投
//   - 注册循环：接收 worker 侧发来的读/写注册
//
// 同一进程内所有 worker 共享一条 Link 的出站队列（多生产者单消费者），
// 每个通道的入站队列只有一个消费者（该通道的拉取端）。
//
// # 生命周期
//
// Run 返回时所有队列被关闭：此后 worker 侧的发送与注册都被静默丢弃，
// 对应"对端已退出"的尽力而为语义。连接建立与拆除不属于本包职责。
//
// # 线格式
//
//	+----------------------+------------------------------+
//	| MessageHeader (40 B) | payload (Header.Length 字节) |
//	+----------------------+------------------------------+
package network
