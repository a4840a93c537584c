package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/dep2p/go-dfcomm/config"
	"github.com/dep2p/go-dfcomm/pkg/lib/log"
)

var (
	currentMu     sync.Mutex
	currentLevels *levels
)

// Setup 按配置安装默认 logger，输出到 w（nil 时为 stderr）
//
// 安装后所有组件 logger 立即使用新的 handler。
func Setup(cfg *Config, w io.Writer) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{
		// 级别由 componentHandler 决定，内层不再过滤
		Level:     slog.Level(-8),
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(levelToString(lvl))
				}
			}
			return a
		},
	}

	var inner slog.Handler
	if cfg.Format == FormatJSON {
		inner = slog.NewJSONHandler(w, opts)
	} else {
		inner = slog.NewTextHandler(w, opts)
	}

	lv := &levels{cfg: cfg}
	l := slog.New(newHandler(lv, inner))

	currentMu.Lock()
	currentLevels = lv
	currentMu.Unlock()

	log.SetDefault(l)
	return l
}

// SetupFromUnified 按统一配置与环境变量安装默认 logger
func SetupFromUnified(cfg *config.Config, w io.Writer) *slog.Logger {
	lc := config.DefaultLogConfig()
	if cfg != nil {
		lc = cfg.Log
	}
	return Setup(ConfigFromUnified(lc), w)
}

// SetLevel 动态设置组件的日志级别；component 为空时设置默认级别
//
// 只对 Setup 安装的 logger 生效。
func SetLevel(component string, level slog.Level) {
	currentMu.Lock()
	lv := currentLevels
	currentMu.Unlock()

	if lv != nil {
		lv.set(component, level)
	}
}

// Discard 返回一个丢弃所有日志的 Logger
//
// 主要用于测试，避免日志输出干扰测试结果。
func Discard() *slog.Logger {
	return slog.New(DiscardHandler())
}
