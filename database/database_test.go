package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"expensetracker/config"
	"expensetracker/logging"
	"expensetracker/models"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:", LogLevel: "silent"},
	}
}

func TestOpen_SQLiteMemory(t *testing.T) {
	db, err := Open(memoryConfig(), logging.Discard())
	require.NoError(t, err)
	defer Close(db)

	// 默认类别已初始化
	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(len(models.DefaultCategories())), count)

	// 重复初始化不会再次插入
	require.NoError(t, SeedCategories(db))
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(len(models.DefaultCategories())), count)

	for _, table := range []string{"users", "categories", "expenses", "sessions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestOpen_UniqueConstraintIsDuplicate(t *testing.T) {
	db, err := Open(memoryConfig(), logging.Discard())
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, db.Create(&models.User{Username: "alice", Password: "x", Email: "a@x.com"}).Error)
	err = db.Create(&models.User{Username: "alice", Password: "y", Email: "b@x.com"}).Error
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
}

func TestOpen_SQLiteFileCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := memoryConfig()
	cfg.Database.Path = filepath.Join(dir, "expenses.db")

	db, err := Open(cfg, logging.Discard())
	require.NoError(t, err)
	defer Close(db)

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestNewDialector_UnknownDriver(t *testing.T) {
	_, err := newDialector(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.False(t, IsDuplicateKey(errors.New("boom")))
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(&pq.Error{Code: "23505"}))
	assert.False(t, IsDuplicateKey(&pq.Error{Code: "23503"}))
	assert.True(t, IsDuplicateKey(&mysqldriver.MySQLError{Number: 1062}))
	assert.True(t, IsDuplicateKey(errors.New("UNIQUE constraint failed: users.username")))
}

func TestSeedCategories_SkipsWhenNotEmpty(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `categories`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	require.NoError(t, SeedCategories(db))
	require.NoError(t, mock.ExpectationsWereMet())
}
