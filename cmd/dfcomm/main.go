// Package main 提供 dfcomm 演示入口
//
// 在单个进程内启动 processes×workers 的内存集群，每个 worker 向全部 worker
// 广播若干批次，收齐后打印投递统计。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-dfcomm"
	"github.com/dep2p/go-dfcomm/pkg/codec"
	pkgif "github.com/dep2p/go-dfcomm/pkg/interfaces"
	"github.com/dep2p/go-dfcomm/pkg/lib/log"
	"github.com/dep2p/go-dfcomm/pkg/message"
)

var logger = log.Logger("dfcomm/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	processes = flag.Int("processes", 2, "进程数")
	workers   = flag.Int("workers", 2, "每进程 worker 数")
	rounds    = flag.Int("rounds", 100, "每个 worker 发往每个目标的批次数")
	records   = flag.Int("records", 64, "每批次记录数")
	preset    = flag.String("preset", "local", "预设配置 (local/cluster/minimal)")
	timeout   = flag.Duration("timeout", 30*time.Second, "整体超时")

	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(dfcomm.VersionInfo())
		return nil
	}
	if *records <= 0 || *rounds < 0 {
		return fmt.Errorf("records 必须为正数，rounds 不能为负数")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	cluster, err := dfcomm.NewLocalCluster(*processes, *workers,
		dfcomm.WithPreset(*preset),
		dfcomm.WithLogging(os.Stderr),
	)
	if err != nil {
		return fmt.Errorf("创建集群失败: %w", err)
	}
	defer func() { _ = cluster.Close() }()

	if err := cluster.Start(ctx); err != nil {
		return fmt.Errorf("启动集群失败: %w", err)
	}
	logger.Info("集群已启动", "processes", *processes, "workers", *workers)

	start := time.Now()
	env := codec.NewEnvelope(codec.Uint64(), codec.Int64())

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range cluster.Workers() {
		w := w
		g.Go(func() error { return runWorker(gctx, w, env) })
	}
	if err := g.Wait(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	s := cluster.Stats()
	logger.Info("广播完成",
		"elapsed", elapsed,
		"frames_sent", s.FramesSent,
		"bytes_sent", s.BytesSent,
		"frames_received", s.FramesReceived,
		"frames_dropped", s.FramesDropped)
	fmt.Printf("%d 个 worker，跨进程帧 %d，耗时 %s\n", len(cluster.Workers()), s.FramesSent, elapsed)
	return nil
}

// runWorker 向全部 worker 广播并收齐发往自己的批次
func runWorker(ctx context.Context, w pkgif.Communicator, env codec.Envelope[uint64, int64]) error {
	pushers, pull, err := dfcomm.NewChannel(w, env)
	if err != nil {
		return err
	}

	for r := 0; r < *rounds; r++ {
		for _, p := range pushers {
			m := message.New[int64]()
			for i := 0; i < *records; i++ {
				m.Push(int64(w.Index())<<32 | int64(i))
			}
			p.Open(uint64(r))
			p.Give(m)
			p.Shut(uint64(r))
		}
	}

	want := w.Peers() * *rounds
	got := 0
	for got < want {
		_, m, ok := pull.Pull()
		if !ok {
			select {
			case <-ctx.Done():
				return fmt.Errorf("worker %d: 收到 %d/%d 批次: %w", w.Index(), got, want, ctx.Err())
			case <-time.After(time.Millisecond):
			}
			continue
		}
		if m.Len() != *records {
			return fmt.Errorf("worker %d: 批次记录数 %d, 期望 %d", w.Index(), m.Len(), *records)
		}
		got++
	}
	logger.Debug("worker 完成", "worker", w.Index(), "batches", got)
	return nil
}
