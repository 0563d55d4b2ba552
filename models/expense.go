package models

import (
	"time"
)

// Expense 消费记录模型
// 删除为物理删除，不保留历史
type Expense struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Amount     float64   `json:"amount" gorm:"type:decimal(10,2);not null"`
	CategoryID uint      `json:"category_id" gorm:"index;not null"`
	Category   Category  `json:"category" gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	User       User      `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Timestamp  time.Time `json:"timestamp" gorm:"not null;index"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}

// OwnedBy 判断记录是否属于指定用户
func (e *Expense) OwnedBy(userID uint) bool {
	return userID != 0 && e.UserID == userID
}
