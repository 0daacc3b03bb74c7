package model

import "time"

// TransactionStatus is the settlement state of a transaction
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is a payment made by a user, optionally within a group.
// Amounts are stored in minor units.
type Transaction struct {
	ID          uint              `gorm:"column:id;primaryKey"`
	UserID      uint              `gorm:"column:user_id;not null;index"`
	User        User              `gorm:"foreignKey:UserID"`
	GroupID     *uint             `gorm:"column:group_id;index"`
	Group       *Group            `gorm:"foreignKey:GroupID"`
	AmountCents int64             `gorm:"column:amount_cents;not null"`
	Currency    string            `gorm:"column:currency;size:3;not null;default:'USD'"`
	Category    string            `gorm:"column:category"`
	Description string            `gorm:"column:description"`
	Status      TransactionStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}
