package metrics

import (
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	pkgif "github.com/dep2p/go-dfcomm/pkg/interfaces"
	"github.com/dep2p/go-dfcomm/pkg/types"
)

// Reporter 帧投递统计
//
// 并发安全，所有方法不阻塞。
type Reporter struct {
	framesSent           atomic.Uint64
	bytesSent            atomic.Uint64
	framesDropped        atomic.Uint64
	framesReceived       atomic.Uint64
	bytesReceived        atomic.Uint64
	registrationsDropped atomic.Uint64

	rateIn  *RateMeter
	rateOut *RateMeter

	// Prometheus 计数器；未启用时为 nil
	prom *collectors
}

// collectors Prometheus 计数器集合
type collectors struct {
	framesSent           *prometheus.CounterVec
	bytesSent            *prometheus.CounterVec
	framesDropped        *prometheus.CounterVec
	framesReceived       *prometheus.CounterVec
	registrationsDropped prometheus.Counter
}

// 确保实现接口
var _ pkgif.DeliveryReporter = (*Reporter)(nil)

// NewReporter 创建 Reporter
//
// reg 不为 nil 时注册 Prometheus 计数器；重复注册返回错误。
func NewReporter(cfg Config, reg prometheus.Registerer) (*Reporter, error) {
	r := &Reporter{
		rateIn:  NewRateMeter(),
		rateOut: NewRateMeter(),
	}
	if reg == nil {
		return r, nil
	}

	c := newCollectors(cfg.namespace())
	for _, col := range []prometheus.Collector{
		c.framesSent, c.bytesSent, c.framesDropped, c.framesReceived, c.registrationsDropped,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	r.prom = c
	return r, nil
}

func newCollectors(ns string) *collectors {
	return &collectors{
		framesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "frames_sent_total",
			Help:      "Frames enqueued for a remote worker.",
		}, []string{"target"}),
		bytesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "bytes_sent_total",
			Help:      "Payload bytes enqueued for a remote worker.",
		}, []string{"target"}),
		framesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "frames_dropped_total",
			Help:      "Frames dropped because the link to the target had exited.",
		}, []string{"target"}),
		framesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "frames_received_total",
			Help:      "Frames decoded by a pull endpoint.",
		}, []string{"worker"}),
		registrationsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "registrations_dropped_total",
			Help:      "Channel registrations dropped because the link had exited.",
		}),
	}
}

// FrameSent 记录已入队的帧
func (r *Reporter) FrameSent(h types.MessageHeader) {
	r.framesSent.Add(1)
	r.bytesSent.Add(h.Length)
	r.rateOut.Add(h.Length)
	if r.prom != nil {
		target := strconv.FormatUint(h.Target, 10)
		r.prom.framesSent.WithLabelValues(target).Inc()
		r.prom.bytesSent.WithLabelValues(target).Add(float64(h.Length))
	}
}

// FrameDropped 记录被丢弃的帧
func (r *Reporter) FrameDropped(h types.MessageHeader) {
	r.framesDropped.Add(1)
	if r.prom != nil {
		r.prom.framesDropped.WithLabelValues(strconv.FormatUint(h.Target, 10)).Inc()
	}
}

// FrameReceived 记录已解码的入站帧
func (r *Reporter) FrameReceived(id types.ChannelIdentity, n int) {
	r.framesReceived.Add(1)
	r.bytesReceived.Add(uint64(n))
	r.rateIn.Add(uint64(n))
	if r.prom != nil {
		r.prom.framesReceived.WithLabelValues(strconv.Itoa(id.Worker)).Inc()
	}
}

// RegistrationDropped 记录被丢弃的通道注册
func (r *Reporter) RegistrationDropped(_ types.ChannelIdentity) {
	r.registrationsDropped.Add(1)
	if r.prom != nil {
		r.prom.registrationsDropped.Inc()
	}
}

// Snapshot 返回统计快照
func (r *Reporter) Snapshot() types.DeliveryStats {
	return types.DeliveryStats{
		FramesSent:           r.framesSent.Load(),
		BytesSent:            r.bytesSent.Load(),
		FramesDropped:        r.framesDropped.Load(),
		FramesReceived:       r.framesReceived.Load(),
		BytesReceived:        r.bytesReceived.Load(),
		RegistrationsDropped: r.registrationsDropped.Load(),
	}
}

// Throughput 返回字节吞吐
func (r *Reporter) Throughput() Throughput {
	return Throughput{
		BytesIn:  r.bytesReceived.Load(),
		BytesOut: r.bytesSent.Load(),
		RateIn:   r.rateIn.Rate(),
		RateOut:  r.rateOut.Rate(),
	}
}

// ============================================================================
//                              Nop
// ============================================================================

type nopReporter struct{}

// Nop 返回丢弃所有事件的 DeliveryReporter
func Nop() pkgif.DeliveryReporter {
	return nopReporter{}
}

func (nopReporter) FrameSent(types.MessageHeader)             {}
func (nopReporter) FrameDropped(types.MessageHeader)          {}
func (nopReporter) FrameReceived(types.ChannelIdentity, int)  {}
func (nopReporter) RegistrationDropped(types.ChannelIdentity) {}
