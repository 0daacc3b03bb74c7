package model

import "time"

// Notification is a message delivered to a user
type Notification struct {
	ID        uint       `gorm:"column:id;primaryKey"`
	UserID    uint       `gorm:"column:user_id;not null;index"`
	User      User       `gorm:"foreignKey:UserID"`
	Kind      string     `gorm:"column:kind;not null"`
	Message   string     `gorm:"column:message;not null"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
