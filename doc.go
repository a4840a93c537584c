// Package dfcomm 提供分布式数据流运行时的 worker 间通信
//
// 集群由若干进程组成，每个进程运行固定数量的 worker。每个 worker 持有一个
// 通信器，通过 NewChannel 分配通道：得到发往每个 worker 的推送端（按全局
// 编号排列）和本 worker 的拉取端。同进程的 worker 之间直接转交记录，
// 跨进程的批次被编码为帧，经进程间的链路传输。
//
// # 快速开始
//
//	cluster, err := dfcomm.NewLocalCluster(2, 2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cluster.Close()
//	if err := cluster.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	env := codec.NewEnvelope(codec.Uint64(), codec.String())
//	for _, w := range cluster.Workers() {
//	    pushers, puller, _ := dfcomm.NewChannel(w, env)
//	    ...
//	}
//
// # 多进程部署
//
// 每个进程用已建立的连接创建 Node，连接按 slot 排列：第 s 条连接通往
// 进程 s（s < 本进程）或 s+1（s >= 本进程）。建立连接不在本包范围内。
//
//	cfg := config.NewConfig()
//	cfg.Cluster = cfg.Cluster.WithSize(3, 4).WithProcess(1)
//	node, err := dfcomm.New(cfg, conns)
//
// # 协议约束
//
// 推送端每个时间戳按 Open → Give* → Shut 调用；违反顺序会 panic。
// 所有端点都不阻塞，每个 worker 的端点只能在该 worker 的 goroutine 中使用。
package dfcomm
