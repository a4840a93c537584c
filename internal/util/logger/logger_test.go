package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dfcomm/config"
	"github.com/dep2p/go-dfcomm/pkg/lib/log"
)

func restoreDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

// TestParseLevelSpec 测试级别字符串解析
func TestParseLevelSpec(t *testing.T) {
	cfg := DefaultConfig()
	ParseLevelSpec(cfg, "core/network=debug, core/binary = warn ,error,bogus,x=loud")

	assert.Equal(t, slog.LevelError, cfg.DefaultLevel)
	assert.Equal(t, slog.LevelDebug, cfg.LevelFor("core/network"))
	assert.Equal(t, slog.LevelWarn, cfg.LevelFor("core/binary"))
	assert.Equal(t, slog.LevelError, cfg.LevelFor("core/process"))
	assert.NotContains(t, cfg.ComponentLevels, "x")
	assert.Equal(t, slog.LevelDebug, cfg.MinLevel())
}

// TestConfigFromUnified_EnvOverrides 测试环境变量覆盖统一配置
func TestConfigFromUnified_EnvOverrides(t *testing.T) {
	t.Setenv(EnvLevel, "core/mailbox=debug")
	t.Setenv(EnvFormat, "json")

	cfg := ConfigFromUnified(config.LogConfig{Level: "warn", Format: "text"})
	assert.Equal(t, slog.LevelWarn, cfg.DefaultLevel)
	assert.Equal(t, slog.LevelDebug, cfg.LevelFor("core/mailbox"))
	assert.Equal(t, FormatJSON, cfg.Format)
}

// TestSetup_ComponentLevels 测试按组件过滤
func TestSetup_ComponentLevels(t *testing.T) {
	restoreDefault(t)

	cfg := DefaultConfig()
	ParseLevelSpec(cfg, "core/network=debug,warn")
	buf := &bytes.Buffer{}
	Setup(cfg, buf)

	log.Logger("core/network").Debug("network detail", "frame", 1)
	log.Logger("core/binary").Debug("binary detail")
	log.Logger("core/binary").Warn("binary warning")

	out := buf.String()
	assert.Contains(t, out, "network detail")
	assert.Contains(t, out, "component=core/network")
	assert.NotContains(t, out, "binary detail")
	assert.Contains(t, out, "binary warning")
	assert.Contains(t, out, "level=warn")
}

// TestSetup_JSON 测试 JSON 输出
func TestSetup_JSON(t *testing.T) {
	restoreDefault(t)

	buf := &bytes.Buffer{}
	cfg := DefaultConfig()
	cfg.Format = FormatJSON
	Setup(cfg, buf)

	log.Logger("core/process").Info("hello", "peers", 2)

	line := strings.TrimSpace(buf.String())
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "core/process", rec["component"])
	assert.Contains(t, rec, "ts")
}

// TestSetLevel 测试运行时调整级别
func TestSetLevel(t *testing.T) {
	restoreDefault(t)

	buf := &bytes.Buffer{}
	Setup(DefaultConfig(), buf)

	l := log.Logger("core/metrics")
	l.Debug("hidden")
	SetLevel("core/metrics", slog.LevelDebug)
	l.Debug("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

// TestSetupFromUnified 测试从统一配置安装
func TestSetupFromUnified(t *testing.T) {
	restoreDefault(t)
	t.Setenv(EnvLevel, "")
	t.Setenv(EnvFormat, "")

	cfg := config.NewConfig()
	cfg.Log.Level = "error"
	buf := &bytes.Buffer{}
	SetupFromUnified(cfg, buf)

	log.Logger("core/binary").Warn("quiet")
	log.Logger("core/binary").Error("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

// TestDiscard 测试丢弃 logger
func TestDiscard(t *testing.T) {
	l := Discard()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
	l.Info("nothing")
}
