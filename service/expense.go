package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"expensetracker/logging"
	"expensetracker/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// decimal(10,2) 能保存的最大金额
var maxAmount = decimal.RequireFromString("99999999.99")

// ExpenseService 消费记录
// 所有操作都限定在调用者自己的记录内
type ExpenseService struct {
	db  *gorm.DB
	log *slog.Logger
	now func() time.Time
}

// NewExpenseService 创建消费记录服务
func NewExpenseService(db *gorm.DB, log *slog.Logger) *ExpenseService {
	return &ExpenseService{
		db:  db,
		log: logging.Component(log, logging.ComponentExpense),
		now: time.Now,
	}
}

// UpdateExpenseInput 编辑参数，空字符串表示不修改
type UpdateExpenseInput struct {
	Amount   string
	Category string
}

// ParseAmount 解析金额：必须为大于 0 的数字，四舍五入保留两位小数
func ParseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, newError(ErrValidation, "金额不能为空")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, newError(ErrValidation, "金额必须是数字")
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return 0, newError(ErrValidation, "金额必须大于 0")
	}
	if d.GreaterThan(maxAmount) {
		return 0, newError(ErrValidation, "金额超出范围")
	}
	return d.InexactFloat64(), nil
}

// List 返回调用者的消费记录，按时间倒序；匿名用户返回空列表
func (s *ExpenseService) List(ctx context.Context, caller *models.User) ([]models.Expense, error) {
	expenses := []models.Expense{}
	if caller == nil {
		return expenses, nil
	}
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", caller.ID).
		Order("timestamp DESC, id DESC").
		Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("查询消费记录失败: %w", err)
	}
	return expenses, nil
}

// Create 创建消费记录，类别不存在时自动创建，归属于调用者
func (s *ExpenseService) Create(ctx context.Context, caller *models.User, amount, category string) (*models.Expense, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	value, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	var expense models.Expense
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cat, err := resolveCategory(tx, category)
		if err != nil {
			return err
		}
		expense = models.Expense{
			Amount:     value,
			CategoryID: cat.ID,
			Category:   *cat,
			UserID:     caller.ID,
			Timestamp:  s.now(),
		}
		return tx.Omit("Category", "User").Create(&expense).Error
	})
	if err != nil {
		return nil, wrapWriteError(err, "创建消费记录失败")
	}

	s.log.InfoContext(ctx, "创建消费记录",
		logging.FieldUserID, caller.ID,
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"category", expense.Category.Name)
	return &expense, nil
}

// Get 查询单条记录，仅记录所有者可访问
func (s *ExpenseService) Get(ctx context.Context, caller *models.User, id uint) (*models.Expense, error) {
	return s.load(s.db.WithContext(ctx), caller, id)
}

// Update 编辑消费记录
func (s *ExpenseService) Update(ctx context.Context, caller *models.User, id uint, in UpdateExpenseInput) (*models.Expense, error) {
	if strings.TrimSpace(in.Amount) == "" && strings.TrimSpace(in.Category) == "" {
		return nil, newError(ErrValidation, "没有需要更新的字段")
	}

	var expense *models.Expense
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		expense, err = s.load(tx, caller, id)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if strings.TrimSpace(in.Amount) != "" {
			value, err := ParseAmount(in.Amount)
			if err != nil {
				return err
			}
			updates["amount"] = value
			expense.Amount = value
		}
		if strings.TrimSpace(in.Category) != "" {
			cat, err := resolveCategory(tx, in.Category)
			if err != nil {
				return err
			}
			updates["category_id"] = cat.ID
			expense.CategoryID = cat.ID
			expense.Category = *cat
		}
		return tx.Model(&models.Expense{}).Where("id = ?", expense.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, wrapWriteError(err, "更新消费记录失败")
	}

	s.log.InfoContext(ctx, "更新消费记录", logging.FieldUserID, caller.ID, "expense_id", expense.ID)
	return expense, nil
}

// Delete 物理删除消费记录
func (s *ExpenseService) Delete(ctx context.Context, caller *models.User, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expense, err := s.load(tx, caller, id)
		if err != nil {
			return err
		}
		return tx.Delete(&models.Expense{}, expense.ID).Error
	})
	if err != nil {
		return wrapWriteError(err, "删除消费记录失败")
	}

	s.log.InfoContext(ctx, "删除消费记录", logging.FieldUserID, caller.ID, "expense_id", id)
	return nil
}

// load 加载记录并做所有权校验
func (s *ExpenseService) load(db *gorm.DB, caller *models.User, id uint) (*models.Expense, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	var expense models.Expense
	if err := db.Preload("Category").First(&expense, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "记录不存在")
		}
		return nil, fmt.Errorf("查询消费记录失败: %w", err)
	}
	if !expense.OwnedBy(caller.ID) {
		s.log.Warn("越权访问消费记录", logging.FieldUserID, caller.ID, "expense_id", id)
		return nil, newError(ErrForbidden, "无权操作该记录")
	}
	return &expense, nil
}

// wrapWriteError 业务错误原样返回，其余错误附加上下文
func wrapWriteError(err error, msg string) error {
	var e *Error
	if errors.As(err, &e) || errors.Is(err, ErrUnauthenticated) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
