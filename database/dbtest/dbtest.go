// Package dbtest 提供基于内存 sqlite 的测试数据库
package dbtest

import (
	"testing"

	"expensetracker/config"
	"expensetracker/database"
	"expensetracker/logging"

	"gorm.io/gorm"
)

// New 创建迁移完成的内存数据库，测试结束自动关闭
func New(tb testing.TB) *gorm.DB {
	tb.Helper()
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:   config.DriverSQLite,
			Path:     ":memory:",
			LogLevel: "silent",
		},
	}
	db, err := database.Open(cfg, logging.Discard())
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}
	tb.Cleanup(func() { _ = database.Close(db) })
	return db
}
