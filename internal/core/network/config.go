package network

import (
	"time"

	"github.com/dep2p/go-dfcomm/config"
)

// Config 链路配置
type Config struct {
	// MaxFrameSize 入站帧负载上限（字节）
	MaxFrameSize uint64

	// WriteBufferSize 写缓冲大小
	WriteBufferSize int

	// ReadBufferSize 读缓冲大小
	ReadBufferSize int

	// ShutdownTimeout 停止时等待链路退出的上限
	ShutdownTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		MaxFrameSize:    64 * 1024 * 1024, // 64MB
		WriteBufferSize: 64 * 1024,
		ReadBufferSize:  64 * 1024,
		ShutdownTimeout: 5 * time.Second,
	}
}

// ConfigFromUnified 从统一配置创建链路配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		MaxFrameSize:    cfg.Network.MaxFrameSize,
		WriteBufferSize: cfg.Network.WriteBufferSize,
		ReadBufferSize:  cfg.Network.ReadBufferSize,
		ShutdownTimeout: cfg.Network.ShutdownTimeout.Duration(),
	}
}
