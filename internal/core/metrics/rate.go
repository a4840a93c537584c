package metrics

import (
	"sync"
	"time"
)

// ============================================================================
// RateMeter - 速率计算器
// ============================================================================

// rateBuckets 桶数，每桶 1 秒
const rateBuckets = 60

// RateMeter 速率计算器（基于滑动窗口）
//
// 使用 60 个 1 秒桶计算最近 60 秒的平均速率。
type RateMeter struct {
	mu       sync.Mutex
	buckets  [rateBuckets]uint64
	lastIdx  int
	lastTime time.Time
	now      func() time.Time
}

// NewRateMeter 创建速率计算器
func NewRateMeter() *RateMeter {
	return newRateMeter(time.Now)
}

func newRateMeter(now func() time.Time) *RateMeter {
	return &RateMeter{
		lastTime: now(),
		now:      now,
	}
}

// Add 添加到当前桶
func (r *RateMeter) Add(n uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advanceLocked()
	r.buckets[r.lastIdx] += n
}

// advanceLocked 按经过的整秒数前移并清空桶
func (r *RateMeter) advanceLocked() {
	now := r.now()
	elapsed := now.Sub(r.lastTime)
	if elapsed < time.Second {
		return
	}

	seconds := int(elapsed / time.Second)
	if seconds >= rateBuckets {
		r.buckets = [rateBuckets]uint64{}
		r.lastIdx = 0
	} else {
		for i := 0; i < seconds; i++ {
			r.lastIdx = (r.lastIdx + 1) % rateBuckets
			r.buckets[r.lastIdx] = 0
		}
	}
	r.lastTime = r.lastTime.Add(time.Duration(seconds) * time.Second)
}

// Rate 返回最近 60 秒的平均速率（每秒）
func (r *RateMeter) Rate() float64 {
	return float64(r.Window()) / rateBuckets
}

// Window 返回窗口内的总量
func (r *RateMeter) Window() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advanceLocked()
	var total uint64
	for _, v := range r.buckets {
		total += v
	}
	return total
}

// Reset 重置速率计算器
func (r *RateMeter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buckets = [rateBuckets]uint64{}
	r.lastIdx = 0
	r.lastTime = r.now()
}
