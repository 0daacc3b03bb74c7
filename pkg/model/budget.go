package model

import "time"

// Budget caps a user's spending in a category over a period
type Budget struct {
	ID         uint      `gorm:"column:id;primaryKey"`
	UserID     uint      `gorm:"column:user_id;not null;index"`
	User       User      `gorm:"foreignKey:UserID"`
	Category   string    `gorm:"column:category;not null"`
	LimitCents int64     `gorm:"column:limit_cents;not null"`
	Period     string    `gorm:"column:period;not null;default:'monthly'"`
	StartsOn   time.Time `gorm:"column:starts_on;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Budget) TableName() string {
	return "budgets"
}
