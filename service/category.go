package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"expensetracker/database"
	"expensetracker/logging"
	"expensetracker/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxCategoryName = 50

// CategoryService 消费类别
type CategoryService struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewCategoryService 创建类别服务
func NewCategoryService(db *gorm.DB, log *slog.Logger) *CategoryService {
	return &CategoryService{db: db, log: logging.Component(log, logging.ComponentCategory)}
}

// Add 新增类别，名称全局唯一
func (s *CategoryService) Add(ctx context.Context, name string) (*models.Category, error) {
	name, err := normalizeCategoryName(name)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var existing models.Category
	if err := db.Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, newError(ErrDuplicate, fmt.Sprintf("类别 %q 已存在", name))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询类别失败: %w", err)
	}

	cat := models.Category{Name: name}
	if err := db.Create(&cat).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, newError(ErrDuplicate, fmt.Sprintf("类别 %q 已存在", name))
		}
		return nil, fmt.Errorf("创建类别失败: %w", err)
	}

	s.log.InfoContext(ctx, "新增类别", "category_id", cat.ID, "name", cat.Name)
	return &cat, nil
}

// List 按名称排序列出所有类别
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("查询类别失败: %w", err)
	}
	return list, nil
}

// resolveCategory 在事务内按名称查找类别，不存在则创建
// 并发创建同名类别时插入被忽略，随后重新查询胜出方写入的记录
func resolveCategory(tx *gorm.DB, label string) (*models.Category, error) {
	name, err := normalizeCategoryName(label)
	if err != nil {
		return nil, err
	}

	var cat models.Category
	err = tx.Where("name = ?", name).First(&cat).Error
	if err == nil {
		return &cat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询类别失败: %w", err)
	}

	cat = models.Category{Name: name}
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&cat)
	if result.Error != nil {
		return nil, fmt.Errorf("创建类别失败: %w", result.Error)
	}
	if result.RowsAffected > 0 && cat.ID != 0 {
		return &cat, nil
	}

	cat = models.Category{}
	if err := tx.Where("name = ?", name).First(&cat).Error; err != nil {
		return nil, fmt.Errorf("查询类别失败: %w", err)
	}
	return &cat, nil
}

func normalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newError(ErrValidation, "类别不能为空")
	}
	if len([]rune(name)) > maxCategoryName {
		return "", newError(ErrValidation, "类别名称不能超过 50 个字符")
	}
	return name, nil
}
