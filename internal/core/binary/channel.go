package binary

import (
	"log/slog"

	"github.com/dep2p/go-dfcomm/internal/core/mailbox"
	"github.com/dep2p/go-dfcomm/internal/core/network"
	"github.com/dep2p/go-dfcomm/internal/core/process"
	"github.com/dep2p/go-dfcomm/pkg/codec"
	pkgif "github.com/dep2p/go-dfcomm/pkg/interfaces"
	"github.com/dep2p/go-dfcomm/pkg/types"
)

// NewChannel 分配一个跨进程通道
//
// 返回按全局 worker 编号排列的推送端（长度为 Peers()，含发往自身的一个）
// 和本 worker 的拉取端。集群中每个 worker 必须以相同顺序、相同类型参数
// 分配通道，两端的 env 必须编码一致。
//
// 远端链路已退出时注册被丢弃，通道仍然可用：发往该组的帧同样被丢弃。
func NewChannel[T, D any](b *Binary, env codec.Envelope[T, D]) ([]pkgif.Observer[T, D], pkgif.Pullable[T, D]) {
	id := b.allocated
	b.allocated++

	locals, localPull := process.NewChannel[T, D](b.inner)
	inner := b.topology.InnerPeers

	pushers := make([]pkgif.Observer[T, D], b.topology.Workers())
	for i, p := range locals {
		target := b.topology.Join(b.group, i)
		pushers[target] = &localObserver[T, D]{Observer: p, target: target}
	}

	for slot, link := range b.links {
		for offset := 0; offset < inner; offset++ {
			target := b.topology.RemoteWorker(b.group, slot, offset)
			key := types.ChannelIdentity{Worker: target, Graph: b.graph, Channel: id}
			if !link.Writers.Send(network.WriterRegistration{ID: key}) {
				b.registrationDropped(key, slot)
			}

			pushers[target] = &observer[T, D]{
				header: types.MessageHeader{
					Graph:   b.graph,
					Channel: id,
					Source:  uint64(b.index),
					Target:  uint64(target),
				},
				target:   target,
				env:      env,
				sender:   link.Sender,
				maxFrame: b.maxFrame,
				reporter: b.reporter,
			}
		}
	}

	key := types.ChannelIdentity{Worker: b.index, Graph: b.graph, Channel: id}
	inbound := mailbox.New[[]byte]()
	for slot, link := range b.links {
		if !link.Readers.Send(network.ReaderRegistration{ID: key, Inbound: inbound}) {
			b.registrationDropped(key, slot)
		}
	}

	if logger.Enabled(slog.LevelDebug) {
		logger.Debug("分配通道", "channel", key.String(), "peers", len(pushers), "remotes", len(b.links))
	}

	return pushers, &pullable[T, D]{
		local:    localPull,
		inbound:  inbound,
		env:      env,
		id:       key,
		reporter: b.reporter,
	}
}

func (b *Binary) registrationDropped(key types.ChannelIdentity, slot int) {
	b.reporter.RegistrationDropped(key)
	logger.Debug("链路已退出，丢弃通道注册",
		"channel", key.String(),
		"group", b.topology.GroupOfSlot(b.group, slot))
}

// localObserver 进程内推送端，Target 报告全局编号
type localObserver[T, D any] struct {
	pkgif.Observer[T, D]
	target int
}

// Target 返回目标 worker 全局编号
func (o *localObserver[T, D]) Target() int {
	return o.target
}
