package model

import "time"

// Account is a user's point balance keyed by Telegram user id.
type Account struct {
	UserID     int64  `gorm:"primaryKey;autoIncrement:false"`
	Points     int64  `gorm:"not null;default:0"`
	ReferredBy *int64 `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Account) TableName() string {
	return "users"
}
