package model

import "time"

// Group is a set of users splitting expenses
type Group struct {
	ID          uint      `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	OwnerID     uint      `gorm:"column:owner_id;not null;index"`
	Owner       User      `gorm:"foreignKey:OwnerID"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Group) TableName() string {
	return "groups"
}
