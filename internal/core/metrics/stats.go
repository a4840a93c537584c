package metrics

// Throughput 字节吞吐快照
//
// BytesIn/BytesOut 是累计值，RateIn/RateOut 是最近 60 秒的平均速率（字节/秒）。
type Throughput struct {
	BytesIn  uint64  // 累计入站字节
	BytesOut uint64  // 累计出站字节
	RateIn   float64 // 入站速率
	RateOut  float64 // 出站速率
}
