package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, ModeDebug, cfg.Server.Mode)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "expenses.db", cfg.Database.Path)
	assert.Equal(t, "session", cfg.Session.CookieName)
	assert.Equal(t, 24*time.Hour, cfg.Session.ExpireTime)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	// jwt.secret 为空时沿用 session.secret
	assert.Equal(t, cfg.Session.Secret, cfg.JWT.Secret)
	assert.False(t, cfg.Email.Enabled)
}

func TestLoadConfig_ExternalFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := []byte("server:\n  port: \"9090\"\nsession:\n  expire_hours: 2\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("EXPENSE_DATABASE_DRIVER", "mysql")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// 端口自动补全冒号
	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Session.ExpireTime)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Mode: ModeDebug},
		Database: DatabaseConfig{Driver: "oracle"},
	}
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = DriverPostgres
	assert.NoError(t, cfg.Validate())

	// release 模式不允许使用默认密钥
	cfg.Server.Mode = ModeRelease
	cfg.Session.Secret = defaultSecret
	assert.Error(t, cfg.Validate())

	cfg.Session.Secret = "a-real-secret"
	assert.NoError(t, cfg.Validate())

	cfg.Server.Mode = "staging"
	assert.Error(t, cfg.Validate())
}

func TestSafeErrorMessage(t *testing.T) {
	fallback := "操作失败"
	testErr := errors.New("internal database error")

	// nil err 返回 fallback
	cfg := &Config{Server: ServerConfig{Mode: ModeDebug}}
	assert.Equal(t, fallback, cfg.SafeErrorMessage(nil, fallback))

	// debug 模式返回 err.Error()
	assert.Equal(t, "internal database error", cfg.SafeErrorMessage(testErr, fallback))

	// release 模式返回 fallback，不暴露错误详情
	cfg.Server.Mode = ModeRelease
	assert.Equal(t, fallback, cfg.SafeErrorMessage(testErr, fallback))

	// nil 配置视为开发环境
	var nilCfg *Config
	assert.Equal(t, "internal database error", nilCfg.SafeErrorMessage(testErr, fallback))
}
