package service

import (
	"context"
	"fmt"
	"log/slog"

	"expensetracker/logging"
	"expensetracker/metrics"

	"github.com/robfig/cron/v3"
)

// NewSessionPurger 按 cron 表达式定时清理过期会话，调用方负责 Start/Stop
func NewSessionPurger(auth *AuthService, schedule string, log *slog.Logger) (*cron.Cron, error) {
	log = logging.Component(log, logging.ComponentCron)
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		n, err := auth.PurgeExpiredSessions(context.Background())
		if err != nil {
			log.Error("清理过期会话失败", logging.FieldError, err)
			return
		}
		metrics.AddSessionsPurged(n)
		if n > 0 {
			log.Info("已清理过期会话", "count", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("无效的定时任务表达式 %q: %w", schedule, err)
	}
	return c, nil
}
