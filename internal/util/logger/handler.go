package logger

import (
	"context"
	"log/slog"
	"sync"
)

// componentKey 组件 logger 附加的属性名
const componentKey = "component"

// levels 各组件当前级别，可在运行时调整
type levels struct {
	mu  sync.RWMutex
	cfg *Config
}

func (l *levels) get(component string) slog.Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg.LevelFor(component)
}

func (l *levels) set(component string, level slog.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if component == "" {
		l.cfg.DefaultLevel = level
		return
	}
	l.cfg.ComponentLevels[component] = level
}

// componentHandler 按 component 属性过滤级别的 slog.Handler
type componentHandler struct {
	component string
	levels    *levels
	inner     slog.Handler
}

func newHandler(lv *levels, inner slog.Handler) *componentHandler {
	return &componentHandler{levels: lv, inner: inner}
}

// Enabled 检查是否启用指定级别
func (h *componentHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.levels.get(h.component)
}

// Handle 处理日志记录
func (h *componentHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

// WithAttrs 添加属性，记录 component 属性用于级别过滤
func (h *componentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	component := h.component
	for _, a := range attrs {
		if a.Key == componentKey {
			component = a.Value.String()
		}
	}
	return &componentHandler{
		component: component,
		levels:    h.levels,
		inner:     h.inner.WithAttrs(attrs),
	}
}

// WithGroup 添加组
func (h *componentHandler) WithGroup(name string) slog.Handler {
	return &componentHandler{
		component: h.component,
		levels:    h.levels,
		inner:     h.inner.WithGroup(name),
	}
}

// levelToString 将日志级别转换为小写字符串
func levelToString(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "debug"
	case level < slog.LevelWarn:
		return "info"
	case level < slog.LevelError:
		return "warn"
	default:
		return "error"
	}
}

// discardHandler 丢弃所有日志的 Handler（用于测试）
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// DiscardHandler 返回一个丢弃所有日志的 Handler
func DiscardHandler() slog.Handler {
	return discardHandler{}
}
