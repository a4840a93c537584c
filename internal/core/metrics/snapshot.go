package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/dep2p/go-dfcomm/pkg/lib/log"
	"github.com/dep2p/go-dfcomm/pkg/types"
)

var logger = log.Logger("core/metrics")

// DeliverySnapshot 投递统计快照
type DeliverySnapshot struct {
	// 时间信息
	Timestamp     time.Time     `json:"timestamp"`
	UptimeSeconds int64         `json:"uptimeSeconds"`
	Interval      time.Duration `json:"interval"`

	// 累计值
	Stats types.DeliveryStats `json:"stats"`

	// 相对上次快照的增量
	FramesSentDelta     uint64 `json:"framesSentDelta"`
	FramesReceivedDelta uint64 `json:"framesReceivedDelta"`
	FramesDroppedDelta  uint64 `json:"framesDroppedDelta"`

	// 字节速率（字节/秒）
	RateIn  float64 `json:"rateIn"`
	RateOut float64 `json:"rateOut"`
}

// SnapshotCollector 周期性记录投递快照
type SnapshotCollector struct {
	mu sync.Mutex

	startTime time.Time
	reporter  *Reporter

	last     types.DeliveryStats
	lastTime time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSnapshotCollector 创建快照收集器
func NewSnapshotCollector(reporter *Reporter) *SnapshotCollector {
	now := time.Now()
	return &SnapshotCollector{
		startTime: now,
		reporter:  reporter,
		lastTime:  now,
	}
}

// Collect 采集一次快照并更新基线
func (c *SnapshotCollector) Collect() DeliverySnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	stats := c.reporter.Snapshot()
	tp := c.reporter.Throughput()

	s := DeliverySnapshot{
		Timestamp:           now,
		UptimeSeconds:       int64(now.Sub(c.startTime).Seconds()),
		Interval:            now.Sub(c.lastTime),
		Stats:               stats,
		FramesSentDelta:     stats.FramesSent - c.last.FramesSent,
		FramesReceivedDelta: stats.FramesReceived - c.last.FramesReceived,
		FramesDroppedDelta:  stats.FramesDropped - c.last.FramesDropped,
		RateIn:              tp.RateIn,
		RateOut:             tp.RateOut,
	}
	c.last = stats
	c.lastTime = now
	return s
}

// Start 启动周期性快照
func (c *SnapshotCollector) Start(interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go c.loop(ctx, interval)

	logger.Info("投递快照收集器已启动", "interval", interval)
}

// Stop 停止快照收集
func (c *SnapshotCollector) Stop() {
	c.mu.Lock()
	if c.cancel == nil {
		c.mu.Unlock()
		return
	}
	c.cancel()
	c.cancel = nil
	c.mu.Unlock()

	c.wg.Wait()
	logger.Info("投递快照收集器已停止")
}

func (c *SnapshotCollector) loop(ctx context.Context, interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.logSnapshot(c.Collect())
		}
	}
}

func (c *SnapshotCollector) logSnapshot(s DeliverySnapshot) {
	logger.Info("投递快照",
		"uptime", s.UptimeSeconds,
		"framesSent", s.Stats.FramesSent,
		"framesReceived", s.Stats.FramesReceived,
		"framesDropped", s.Stats.FramesDropped,
		"registrationsDropped", s.Stats.RegistrationsDropped,
		"sentDelta", s.FramesSentDelta,
		"receivedDelta", s.FramesReceivedDelta,
		"rateIn", s.RateIn,
		"rateOut", s.RateOut,
	)
	if s.FramesDroppedDelta > 0 {
		logger.Warn("有帧因链路退出被丢弃", "dropped", s.FramesDroppedDelta)
	}
}
