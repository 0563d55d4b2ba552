package service

import (
	"context"
	"fmt"

	"expensetracker/models"

	"gorm.io/gorm"
)

// ProfileView 个人信息页
type ProfileView struct {
	User          models.User `json:"user"`
	ExpenseCount  int64       `json:"expense_count"`
	CategoryCount int64       `json:"category_count"` // 用过的类别数
}

// ProfileService 个人信息
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService 创建个人信息服务
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// Profile 返回当前用户的个人信息
func (s *ProfileService) Profile(ctx context.Context, caller *models.User) (*ProfileView, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	db := s.db.WithContext(ctx)

	view := &ProfileView{User: *caller}
	if err := db.Model(&models.Expense{}).Where("user_id = ?", caller.ID).Count(&view.ExpenseCount).Error; err != nil {
		return nil, fmt.Errorf("统计消费记录失败: %w", err)
	}
	if err := db.Model(&models.Expense{}).Where("user_id = ?", caller.ID).
		Distinct("category_id").Count(&view.CategoryCount).Error; err != nil {
		return nil, fmt.Errorf("统计类别失败: %w", err)
	}
	return view, nil
}
