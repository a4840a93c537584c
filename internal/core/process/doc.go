// Package process 实现进程内通信器
//
// 同一进程内的 worker 共享一个 Hub。每次分配通道时，第一个到达的 worker
// 为该通道创建每个 worker 一个的类型化邮箱，其余 worker 复用同一组邮箱：
//
//	hub, _ := process.NewHub(4)
//	w0 := hub.Worker(0)
//	pushers, puller := process.NewChannel[uint64, string](w0)
//
// 推送端直接转交记录切片的所有权，不做序列化，也不拷贝。
//
// # 并发约定
//
// 每个 Process 只由其所属 worker 的 goroutine 使用；Hub 内部的通道表有锁保护，
// 邮箱本身是并发安全的多生产者队列。
package process
