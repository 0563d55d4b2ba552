package service

import (
	"context"
	"log/slog"

	"expensetracker/config"

	"gorm.io/gorm"
)

// Services 汇总各业务服务，由 serve 命令创建后注入路由
type Services struct {
	Auth       *AuthService
	Expenses   *ExpenseService
	Categories *CategoryService
	Profiles   *ProfileService

	db *gorm.DB
}

// NewServices 创建全部业务服务
func NewServices(db *gorm.DB, cfg *config.Config, log *slog.Logger) *Services {
	return &Services{
		Auth:       NewAuthService(db, cfg, NewEmailService(&cfg.Email), log),
		Expenses:   NewExpenseService(db, log),
		Categories: NewCategoryService(db, log),
		Profiles:   NewProfileService(db),
		db:         db,
	}
}

// Ping 检查数据库连接
func (s *Services) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
