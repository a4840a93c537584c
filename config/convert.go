package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保持默认值。
//
// 示例 JSON:
//
//	{
//	  "cluster": {"processes": 2, "workers_per_process": 4, "process": 1},
//	  "network": {"shutdown_timeout": "10s"},
//	  "log": {"level": "debug"}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// LoadFile 从 JSON 文件加载并验证配置
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := FromJSON(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ToJSON 将配置编码为缩进的 JSON
func ToJSON(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// SaveFile 将配置写入 JSON 文件
func SaveFile(cfg *Config, path string) error {
	data, err := ToJSON(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ApplyPreset 应用预设配置
//
// 支持的预设：
//   - "local": 单机多进程，较小缓冲
//   - "cluster": 跨主机，较大缓冲与关闭等待
//   - "minimal": 关闭统计，最小缓冲
func ApplyPreset(cfg *Config, presetName string) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	switch presetName {
	case "local":
		cfg.Network.WriteBufferSize = 16 << 10
		cfg.Network.ReadBufferSize = 16 << 10
		cfg.Network.ShutdownTimeout = Duration(time.Second)
	case "cluster":
		cfg.Network.WriteBufferSize = 256 << 10
		cfg.Network.ReadBufferSize = 256 << 10
		cfg.Network.ShutdownTimeout = Duration(30 * time.Second)
		cfg.Metrics.Enabled = true
		cfg.Metrics.SnapshotInterval = Duration(time.Minute)
	case "minimal":
		cfg.Network.WriteBufferSize = 4 << 10
		cfg.Network.ReadBufferSize = 4 << 10
		cfg.Metrics.Enabled = false
		cfg.Metrics.SnapshotInterval = 0
	case "":
		// 空预设，不做任何操作
	default:
		return fmt.Errorf("unknown preset: %s", presetName)
	}
	return nil
}

// CloneConfig 深拷贝配置
func CloneConfig(cfg *Config) *Config {
	if cfg == nil {
		return nil
	}
	clone := *cfg
	return &clone
}
