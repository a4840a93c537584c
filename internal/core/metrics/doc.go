// Package metrics 统计帧投递
//
// Reporter 实现 interfaces.DeliveryReporter：
//   - 原子计数器，Snapshot() 返回 types.DeliveryStats
//   - Prometheus 计数器（可选，注册到调用方提供的 Registerer）
//   - 出入站字节速率（最近 60 秒滑动窗口）
//
// 推送端向已退出对端的发送不返回错误，丢弃只在这里可见。
//
// # 快速开始
//
//	reporter, err := metrics.NewReporter(metrics.Config{
//	    Enabled:   true,
//	    Namespace: "dfcomm",
//	}, prometheus.NewRegistry())
//
//	stats := reporter.Snapshot()
//	fmt.Println(stats.FramesSent, stats.FramesDropped)
//
// # 周期快照
//
// SnapshotCollector 按固定间隔把统计写入日志：
//
//	c := metrics.NewSnapshotCollector(reporter)
//	c.Start(30 * time.Second)
//	defer c.Stop()
//
// # 禁用
//
// Nop() 返回丢弃所有事件的实现，开销为零。
package metrics
