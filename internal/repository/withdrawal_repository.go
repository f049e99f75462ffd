package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"referral-bot/internal/model"
)

// WithdrawalRepository is the append-only queue of payout requests.
type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// Enqueue appends req as pending and fills in its ID and Reference.
func (r *WithdrawalRepository) Enqueue(ctx context.Context, req *model.WithdrawalRequest) error {
	req.Status = model.WithdrawalPending
	if req.Reference == "" {
		req.Reference = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("enqueue withdrawal: %w", err)
	}
	return nil
}

// PendingWithdrawals lists pending requests, oldest first. limit <= 0 means no limit.
func (r *WithdrawalRepository) PendingWithdrawals(ctx context.Context, limit int) ([]model.WithdrawalRequest, error) {
	var requests []model.WithdrawalRequest
	q := r.db.WithContext(ctx).Where("status = ?", model.WithdrawalPending).Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("list pending withdrawals: %w", err)
	}
	return requests, nil
}

func (r *WithdrawalRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.WithdrawalRequest{}).
		Where("status = ?", model.WithdrawalPending).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count pending withdrawals: %w", err)
	}
	return count, nil
}
