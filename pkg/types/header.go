package types

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize 帧头固定长度（字节）
//
// 线格式（大端序，无填充）：
//
//	0  ..7   Graph
//	8  ..15  Channel
//	16 ..23  Source
//	24 ..31  Target
//	32 ..39  Length
const HeaderSize = 40

// ============================================================================
//                              MessageHeader - 帧头
// ============================================================================

// MessageHeader 标识一个已成帧的批次
//
// 除 Length 外构造后不再修改；Length 由发送方在每帧上填写，
// 表示紧随帧头之后的负载字节数。
type MessageHeader struct {
	// Graph 数据流图标识
	Graph uint64

	// Channel 逻辑通道编号
	Channel uint64

	// Source 发送方 worker 全局编号
	Source uint64

	// Target 接收方 worker 全局编号
	Target uint64

	// Length 负载字节数
	Length uint64
}

// AppendBinary 将帧头追加到 buf
func (h MessageHeader) AppendBinary(buf []byte) []byte {
	buf = binary.BigEndian.AppendUint64(buf, h.Graph)
	buf = binary.BigEndian.AppendUint64(buf, h.Channel)
	buf = binary.BigEndian.AppendUint64(buf, h.Source)
	buf = binary.BigEndian.AppendUint64(buf, h.Target)
	return binary.BigEndian.AppendUint64(buf, h.Length)
}

// MarshalBinary 编码为 40 字节
func (h MessageHeader) MarshalBinary() ([]byte, error) {
	return h.AppendBinary(make([]byte, 0, HeaderSize)), nil
}

// UnmarshalBinary 从 buf 前 40 字节解码
func (h *MessageHeader) UnmarshalBinary(buf []byte) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("%w: got %d bytes", ErrShortHeader, len(buf))
	}
	h.Graph = binary.BigEndian.Uint64(buf[0:8])
	h.Channel = binary.BigEndian.Uint64(buf[8:16])
	h.Source = binary.BigEndian.Uint64(buf[16:24])
	h.Target = binary.BigEndian.Uint64(buf[24:32])
	h.Length = binary.BigEndian.Uint64(buf[32:40])
	return nil
}

// RouteKey 返回接收端用于分发的通道标识
//
// 接收方以目标 worker 的身份注册通道，因此 Worker 取 Target。
func (h MessageHeader) RouteKey() ChannelIdentity {
	return ChannelIdentity{
		Worker:  int(h.Target),
		Graph:   h.Graph,
		Channel: h.Channel,
	}
}

// String 返回便于日志阅读的表示
func (h MessageHeader) String() string {
	return fmt.Sprintf("g%d/c%d %d->%d len=%d", h.Graph, h.Channel, h.Source, h.Target, h.Length)
}

// ============================================================================
//                              Frame - 出站帧
// ============================================================================

// Frame 出站队列中的一帧：帧头与已序列化的负载
//
// Payload 为 encode(time) 紧接 encode(records)，长度等于 Header.Length。
type Frame struct {
	Header  MessageHeader
	Payload []byte
}
