// Package interfaces 定义 dfcomm 公共接口
//
// 本文件定义投递观测钩子。
package interfaces

import "github.com/dep2p/go-dfcomm/pkg/types"

// DeliveryReporter 帧投递观测钩子
//
// 推送端对已退出对端的发送是尽力而为的：失败不返回错误，只通过本钩子可见。
// 实现必须并发安全且不阻塞。
type DeliveryReporter interface {
	// FrameSent 帧已进入出站队列
	FrameSent(h types.MessageHeader)

	// FrameDropped 出站队列已关闭，帧被丢弃
	FrameDropped(h types.MessageHeader)

	// FrameReceived 拉取端解码了一帧，n 为负载字节数
	FrameReceived(id types.ChannelIdentity, n int)

	// RegistrationDropped 网络线程已退出，通道注册被丢弃
	RegistrationDropped(id types.ChannelIdentity)
}
