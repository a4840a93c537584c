package config

import (
	"errors"
	"time"
)

// NetworkConfig 进程间链路配置
type NetworkConfig struct {
	// MaxFrameSize 帧负载上限（字节），集群内所有进程应使用相同的值
	//
	// 接收方遇到超限的帧会断开整条链路；发送方在入队前丢弃超限的帧并计入
	// frames_dropped。
	// 默认值: 64MB
	MaxFrameSize uint64 `json:"max_frame_size"`

	// WriteBufferSize 写缓冲大小
	// 默认值: 64KB
	WriteBufferSize int `json:"write_buffer_size"`

	// ReadBufferSize 读缓冲大小
	// 默认值: 64KB
	ReadBufferSize int `json:"read_buffer_size"`

	// ShutdownTimeout 关闭链路的等待上限
	// 默认值: 5s
	ShutdownTimeout Duration `json:"shutdown_timeout"`
}

// DefaultNetworkConfig 返回默认的链路配置
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		MaxFrameSize:    64 << 20,
		WriteBufferSize: 64 << 10,
		ReadBufferSize:  64 << 10,
		ShutdownTimeout: Duration(5 * time.Second),
	}
}

// Validate 验证链路配置
func (c *NetworkConfig) Validate() error {
	if c.MaxFrameSize == 0 {
		return errors.New("network.max_frame_size must be positive")
	}
	if c.WriteBufferSize <= 0 {
		return errors.New("network.write_buffer_size must be positive")
	}
	if c.ReadBufferSize <= 0 {
		return errors.New("network.read_buffer_size must be positive")
	}
	if c.ShutdownTimeout < 0 {
		return errors.New("network.shutdown_timeout must not be negative")
	}
	return nil
}
