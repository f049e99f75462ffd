package repository

import (
	"context"

	"gorm.io/gorm"

	"referral-bot/internal/model"
)

// Ledger is the storage capability the referral service depends on.
type Ledger interface {
	EnsureAccount(ctx context.Context, userID int64) (bool, error)
	AddPoints(ctx context.Context, userID, delta int64) error
	GetPoints(ctx context.Context, userID int64) (int64, error)
	SetReferrer(ctx context.Context, userID, referrerID int64) (bool, error)
	AccountExists(ctx context.Context, userID int64) (bool, error)
	CountReferrals(ctx context.Context, referrerID int64) (int64, error)

	Enqueue(ctx context.Context, req *model.WithdrawalRequest) error
	PendingWithdrawals(ctx context.Context, limit int) ([]model.WithdrawalRequest, error)
	CountPending(ctx context.Context) (int64, error)
}

// Store bundles the account and withdrawal repositories over one handle.
type Store struct {
	*AccountRepository
	*WithdrawalRepository
	db *gorm.DB
}

var _ Ledger = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{
		AccountRepository:    NewAccountRepository(db),
		WithdrawalRepository: NewWithdrawalRepository(db),
		db:                   db,
	}
}

// Transaction runs fn against a Store bound to a single database transaction.
// Everything fn writes commits together or not at all.
func (s *Store) Transaction(ctx context.Context, fn func(tx Ledger) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
