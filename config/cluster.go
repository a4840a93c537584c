package config

import "fmt"

// ClusterConfig 集群配置
//
// 集群由 Processes 个进程组成，每个进程运行 WorkersPerProcess 个 worker，
// 本进程是其中第 Process 个。
type ClusterConfig struct {
	// Processes 进程数
	// 默认值: 1
	Processes int `json:"processes"`

	// WorkersPerProcess 每个进程的 worker 数
	// 默认值: 1
	WorkersPerProcess int `json:"workers_per_process"`

	// Process 本进程编号，[0, Processes)
	// 默认值: 0
	Process int `json:"process"`

	// Graph 数据流图编号，写入每个帧头
	// 默认值: 0
	Graph uint64 `json:"graph"`
}

// DefaultClusterConfig 返回默认的集群配置
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		Processes:         1,
		WorkersPerProcess: 1,
	}
}

// Validate 验证集群配置
func (c *ClusterConfig) Validate() error {
	if c.Processes <= 0 {
		return fmt.Errorf("cluster.processes must be positive, got %d", c.Processes)
	}
	if c.WorkersPerProcess <= 0 {
		return fmt.Errorf("cluster.workers_per_process must be positive, got %d", c.WorkersPerProcess)
	}
	if c.Process < 0 || c.Process >= c.Processes {
		return fmt.Errorf("cluster.process %d not in [0, %d)", c.Process, c.Processes)
	}
	return nil
}

// Workers 返回集群 worker 总数
func (c ClusterConfig) Workers() int {
	return c.Processes * c.WorkersPerProcess
}

// WithProcess 设置本进程编号
func (c ClusterConfig) WithProcess(process int) ClusterConfig {
	c.Process = process
	return c
}

// WithSize 设置进程数与每进程 worker 数
func (c ClusterConfig) WithSize(processes, workers int) ClusterConfig {
	c.Processes = processes
	c.WorkersPerProcess = workers
	return c
}
