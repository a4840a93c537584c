package types

import "fmt"

// ============================================================================
//                              Topology - 集群拓扑
// ============================================================================

// Topology 描述集群拓扑：Groups 个进程组，每组 InnerPeers 个共享地址空间的 worker
//
// 全局 worker 编号与（组, 组内偏移）之间是双射：
//
//	Join(g, c) = g*InnerPeers + c      g ∈ [0, Groups), c ∈ [0, InnerPeers)
//	Split(w)   = (w/InnerPeers, w%InnerPeers)
//
// 组内通信走进程内通道，不存在到自身组的二进制连接。某个组 own 的远端连接按
// slot ∈ [0, Groups-1) 编号，跳过 own 自身：
//
//	GroupOfSlot(own, s) = s      (s <  own)
//	                    = s + 1  (s >= own)
type Topology struct {
	// Groups 进程组数量
	Groups int

	// InnerPeers 每个进程组内的 worker 数量
	InnerPeers int
}

// Validate 检查拓扑参数
func (t Topology) Validate() error {
	if t.Groups <= 0 || t.InnerPeers <= 0 {
		return fmt.Errorf("%w: groups=%d inner_peers=%d", ErrInvalidTopology, t.Groups, t.InnerPeers)
	}
	return nil
}

// Workers 返回集群 worker 总数
func (t Topology) Workers() int {
	return t.Groups * t.InnerPeers
}

// Remotes 返回每个 worker 持有的远端连接数
func (t Topology) Remotes() int {
	return t.Groups - 1
}

// Join 由（组, 偏移）计算全局编号
func (t Topology) Join(group, offset int) int {
	return group*t.InnerPeers + offset
}

// Split 将全局编号拆分为（组, 偏移）
func (t Topology) Split(worker int) (group, offset int) {
	return worker / t.InnerPeers, worker % t.InnerPeers
}

// GroupOfSlot 返回组 own 的第 slot 条远端连接所指向的组
func (t Topology) GroupOfSlot(own, slot int) int {
	if slot >= own {
		return slot + 1
	}
	return slot
}

// SlotOfGroup 返回组 own 通往组 group 的连接 slot
//
// group == own 时没有二进制连接，返回 false。
func (t Topology) SlotOfGroup(own, group int) (int, bool) {
	switch {
	case group == own:
		return 0, false
	case group > own:
		return group - 1, true
	default:
		return group, true
	}
}

// RemoteWorker 返回组 own 经第 slot 条连接可达的第 offset 个 worker 的全局编号
func (t Topology) RemoteWorker(own, slot, offset int) int {
	return t.Join(t.GroupOfSlot(own, slot), offset)
}

// CheckWorker 检查 worker 编号是否在范围内
func (t Topology) CheckWorker(worker int) error {
	if worker < 0 || worker >= t.Workers() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrWorkerOutOfRange, worker, t.Workers())
	}
	return nil
}

// CheckGroup 检查组编号是否在范围内
func (t Topology) CheckGroup(group int) error {
	if group < 0 || group >= t.Groups {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrGroupOutOfRange, group, t.Groups)
	}
	return nil
}
