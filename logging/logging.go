package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

// 常用的结构化日志字段名
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldUserID    = "user_id"
	FieldError     = "error"
)

// 组件名称
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentAuth     = "auth"
	ComponentExpense  = "expense"
	ComponentCategory = "category"
	ComponentStorage  = "storage"
	ComponentMail     = "mail"
	ComponentCron     = "cron"
)

// Config 日志配置
type Config struct {
	Level  string
	Format string
	Output io.Writer
}

// New 根据配置创建 slog.Logger，默认输出到 stdout
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

// Discard 测试用的静默 logger
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Component 返回带组件名的子 logger
func Component(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With(FieldComponent, name)
}

// ParseLevel 解析日志级别，无法识别时返回 Info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// gormWriter 把 gorm 的 Printf 日志转发到 slog
type gormWriter struct {
	l *slog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.l.Info(fmt.Sprintf(format, args...))
}

// GormLogger 创建 gorm 使用的 logger，level 取值 silent/error/warn/info
func GormLogger(l *slog.Logger, level string) gormlogger.Interface {
	return gormlogger.New(
		gormWriter{l: Component(l, ComponentStorage)},
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  parseGormLevel(level),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func parseGormLevel(s string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
