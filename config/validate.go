package config

import (
	"errors"
	"fmt"
)

// ValidateAll 验证整个配置的有效性
//
// 这是 Config.Validate() 的别名，额外处理 nil。
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// ValidateAndFix 验证配置并尝试自动修复常见问题
//
// 可修复的问题：
//   - 缓冲大小或帧上限为零 -> 使用默认值
//   - 超时为负 -> 使用默认值
//   - 空的日志级别或格式 -> 使用默认值
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	def := DefaultNetworkConfig()
	if c.Network.MaxFrameSize == 0 {
		c.Network.MaxFrameSize = def.MaxFrameSize
	}
	if c.Network.WriteBufferSize <= 0 {
		c.Network.WriteBufferSize = def.WriteBufferSize
	}
	if c.Network.ReadBufferSize <= 0 {
		c.Network.ReadBufferSize = def.ReadBufferSize
	}
	if c.Network.ShutdownTimeout < 0 {
		c.Network.ShutdownTimeout = def.ShutdownTimeout
	}
	if c.Metrics.SnapshotInterval < 0 {
		c.Metrics.SnapshotInterval = 0
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogConfig().Level
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogConfig().Format
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed after fixes: %w", err)
	}
	return c, nil
}

// MustValidate 验证配置，如果失败则 panic
//
// 仅用于初始化阶段或测试代码。
func MustValidate(c *Config) {
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("config validation failed: %v", err))
	}
}

// ValidateCompatibility 验证配置之间的兼容性
//
// 读缓冲小于帧头长度时每帧需要多次系统调用，写缓冲同理。
func ValidateCompatibility(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	const headerSize = 40
	if c.Network.ReadBufferSize < headerSize {
		return fmt.Errorf("network.read_buffer_size %d smaller than frame header (%d)", c.Network.ReadBufferSize, headerSize)
	}
	if c.Network.WriteBufferSize < headerSize {
		return fmt.Errorf("network.write_buffer_size %d smaller than frame header (%d)", c.Network.WriteBufferSize, headerSize)
	}
	if c.Cluster.Workers() > 1<<20 {
		return fmt.Errorf("cluster has %d workers, more than supported %d", c.Cluster.Workers(), 1<<20)
	}
	return nil
}
