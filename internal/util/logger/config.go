// Package logger 配置 dfcomm 的日志输出
//
// 组件通过 pkg/lib/log 取得 logger；本包负责安装 slog 默认 handler，
// 决定级别、格式与输出目标。级别可按组件配置：
//
//   - DFCOMM_LOG_LEVEL: 组件=级别,组件=级别,默认级别
//     示例: core/network=debug,core/binary=warn,info
//   - DFCOMM_LOG_FORMAT: text 或 json
//   - DFCOMM_LOG_ADD_SOURCE: true 或 false
//
// 环境变量覆盖统一配置中的 log 段。
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/dep2p/go-dfcomm/config"
)

// 环境变量名
const (
	EnvLevel     = "DFCOMM_LOG_LEVEL"
	EnvFormat    = "DFCOMM_LOG_FORMAT"
	EnvAddSource = "DFCOMM_LOG_ADD_SOURCE"
)

// LogFormat 日志输出格式
type LogFormat int

const (
	// FormatText 文本格式（默认）
	FormatText LogFormat = iota
	// FormatJSON JSON 格式
	FormatJSON
)

// Config 日志配置
type Config struct {
	// DefaultLevel 默认日志级别
	DefaultLevel slog.Level

	// ComponentLevels 各组件的日志级别
	ComponentLevels map[string]slog.Level

	// Format 输出格式
	Format LogFormat

	// AddSource 是否添加源码位置
	AddSource bool
}

// DefaultConfig 返回默认配置：info 级别、文本格式
func DefaultConfig() *Config {
	return &Config{
		DefaultLevel:    slog.LevelInfo,
		ComponentLevels: make(map[string]slog.Level),
		Format:          FormatText,
	}
}

// LevelFor 获取指定组件的日志级别
func (c *Config) LevelFor(component string) slog.Level {
	if level, ok := c.ComponentLevels[component]; ok {
		return level
	}
	return c.DefaultLevel
}

// MinLevel 返回所有组件中最低的级别
func (c *Config) MinLevel() slog.Level {
	lowest := c.DefaultLevel
	for _, l := range c.ComponentLevels {
		if l < lowest {
			lowest = l
		}
	}
	return lowest
}

// ConfigFromUnified 从统一配置的 log 段创建配置，再应用环境变量
func ConfigFromUnified(lc config.LogConfig) *Config {
	cfg := DefaultConfig()
	if lc.Level != "" {
		ParseLevelSpec(cfg, lc.Level)
	}
	if lc.Format != "" {
		cfg.Format = parseFormat(lc.Format)
	}
	applyEnv(cfg)
	return cfg
}

// ConfigFromEnv 只从环境变量创建配置
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	applyEnv(cfg)
	return cfg
}

func applyEnv(cfg *Config) {
	if levelStr := os.Getenv(EnvLevel); levelStr != "" {
		ParseLevelSpec(cfg, levelStr)
	}
	if formatStr := os.Getenv(EnvFormat); formatStr != "" {
		cfg.Format = parseFormat(formatStr)
	}
	if addSourceStr := os.Getenv(EnvAddSource); addSourceStr != "" {
		cfg.AddSource = addSourceStr != "false" && addSourceStr != "0"
	}
}

// ParseLevelSpec 解析级别配置字符串
//
// 格式: component=level,component=level,defaultLevel；无法识别的项被忽略。
func ParseLevelSpec(cfg *Config, spec string) {
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if component, levelName, ok := strings.Cut(part, "="); ok {
			if level, ok := parseLevel(strings.TrimSpace(levelName)); ok {
				cfg.ComponentLevels[strings.TrimSpace(component)] = level
			}
			continue
		}
		if level, ok := parseLevel(part); ok {
			cfg.DefaultLevel = level
		}
	}
}

func parseFormat(s string) LogFormat {
	if strings.EqualFold(s, "json") {
		return FormatJSON
	}
	return FormatText
}

// parseLevel 解析日志级别名称
func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
