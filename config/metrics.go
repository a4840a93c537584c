package config

import (
	"errors"
	"regexp"
)

// MetricsConfig 投递统计配置
type MetricsConfig struct {
	// Enabled 是否启用统计
	// 默认值: true
	Enabled bool `json:"enabled"`

	// Namespace Prometheus 指标命名空间
	// 默认值: "dfcomm"
	Namespace string `json:"namespace"`

	// SnapshotInterval 周期快照日志间隔，0 表示关闭
	// 默认值: 0
	SnapshotInterval Duration `json:"snapshot_interval"`
}

// DefaultMetricsConfig 返回默认的统计配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   true,
		Namespace: "dfcomm",
	}
}

var namespacePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate 验证统计配置
func (c *MetricsConfig) Validate() error {
	if c.Namespace != "" && !namespacePattern.MatchString(c.Namespace) {
		return errors.New("metrics.namespace must match [a-zA-Z_][a-zA-Z0-9_]*")
	}
	if c.SnapshotInterval < 0 {
		return errors.New("metrics.snapshot_interval must not be negative")
	}
	return nil
}
