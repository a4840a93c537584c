// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//   - 支持预设配置（local/cluster/minimal）
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Cluster.Processes = 4
//	cfg.Cluster.WorkersPerProcess = 8
//
//	// 应用预设
//	config.ApplyPreset(cfg, "cluster")
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

// Config 是 dfcomm 的完整配置结构
//
// 配置按照功能模块组织：
//   - Cluster: 集群拓扑与本进程位置
//   - Network: 进程间链路
//   - Metrics: 投递统计
//   - Log: 日志
type Config struct {
	// Cluster 集群配置
	Cluster ClusterConfig `json:"cluster"`

	// Network 链路配置
	Network NetworkConfig `json:"network"`

	// Metrics 统计配置
	Metrics MetricsConfig `json:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log"`
}

// NewConfig 创建默认配置
//
// 默认是单进程单 worker 的集群。
func NewConfig() *Config {
	return &Config{
		Cluster: DefaultClusterConfig(),
		Network: DefaultNetworkConfig(),
		Metrics: DefaultMetricsConfig(),
		Log:     DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置是否有效，如果发现无效配置则返回错误。
func (c *Config) Validate() error {
	if err := c.Cluster.Validate(); err != nil {
		return err
	}
	if err := c.Network.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return nil
}
