package types

// ============================================================================
//                              DeliveryStats - 投递统计
// ============================================================================

// DeliveryStats 帧投递统计快照
type DeliveryStats struct {
	// FramesSent 成功入队的出站帧数
	FramesSent uint64

	// BytesSent 成功入队的出站负载字节数
	BytesSent uint64

	// FramesDropped 因对端网络线程已退出而丢弃的出站帧数
	FramesDropped uint64

	// FramesReceived 拉取端解码的入站帧数
	FramesReceived uint64

	// BytesReceived 拉取端解码的入站负载字节数
	BytesReceived uint64

	// RegistrationsDropped 因网络线程已退出而丢弃的通道注册数
	RegistrationsDropped uint64
}

// TotalFrames 返回出站与入站帧总数
func (s DeliveryStats) TotalFrames() uint64 {
	return s.FramesSent + s.FramesReceived
}
