package model

import "time"

type WithdrawalStatus string

const (
	// WithdrawalPending is the only status the bot ever writes; admins settle requests out-of-band.
	WithdrawalPending WithdrawalStatus = "pending"
)

// WithdrawalRequest is a queued payout of a user's full balance.
type WithdrawalRequest struct {
	ID        uint   `gorm:"primaryKey"`
	Reference string `gorm:"size:36;uniqueIndex"`
	UserID    int64  `gorm:"index"`
	Points    int64  `gorm:"not null"`
	Method    string
	Account   string
	Status    WithdrawalStatus `gorm:"size:16;default:pending;index"`
	CreatedAt time.Time
}

func (WithdrawalRequest) TableName() string {
	return "withdraw_requests"
}
