package dfcomm

import (
	"fmt"

	"github.com/dep2p/go-dfcomm/internal/core/binary"
	"github.com/dep2p/go-dfcomm/internal/core/process"
	"github.com/dep2p/go-dfcomm/pkg/codec"
	pkgif "github.com/dep2p/go-dfcomm/pkg/interfaces"
)

// ════════════════════════════════════════════════════════════════════════════
//                              版本信息
// ════════════════════════════════════════════════════════════════════════════

// Version 当前版本
const Version = "v0.1.0"

// BuildInfo 构建信息（通过 ldflags 注入）
var (
	// GitCommit Git 提交哈希
	GitCommit string

	// BuildDate 构建日期
	BuildDate string
)

// VersionInfo 返回完整版本信息字符串
func VersionInfo() string {
	info := "dfcomm " + Version
	if GitCommit != "" {
		info += " (" + GitCommit[:min(8, len(GitCommit))] + ")"
	}
	if BuildDate != "" {
		info += " built " + BuildDate
	}
	return info
}

// ════════════════════════════════════════════════════════════════════════════
//                              通道分配
// ════════════════════════════════════════════════════════════════════════════

// NewChannel 在通信器 c 上分配下一个通道
//
// 返回按全局 worker 编号排列的推送端（长度为 c.Peers()）和本 worker 的拉取端。
// 进程内通信器不序列化记录，env 只在跨进程通信器上使用。
//
// 集群中所有 worker 必须以相同顺序、相同类型参数分配通道。
func NewChannel[T, D any](c pkgif.Communicator, env codec.Envelope[T, D]) ([]pkgif.Observer[T, D], pkgif.Pullable[T, D], error) {
	switch comm := c.(type) {
	case *binary.Binary:
		pushers, pull := binary.NewChannel(comm, env)
		return pushers, pull, nil
	case pkgif.LocalCommunicator:
		pushers, pull := process.NewChannel[T, D](comm)
		return pushers, pull, nil
	default:
		return nil, nil, fmt.Errorf("%w: %T", ErrUnsupportedCommunicator, c)
	}
}
