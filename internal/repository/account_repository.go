package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"referral-bot/internal/model"
)

// ErrInsufficientPoints is returned when a debit would drive a balance below zero.
var ErrInsufficientPoints = errors.New("insufficient points")

// AccountRepository keeps point balances and referral links.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// EnsureAccount inserts a zero-balance account if none exists and reports whether it did.
func (r *AccountRepository) EnsureAccount(ctx context.Context, userID int64) (bool, error) {
	account := model.Account{UserID: userID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&account)
	if res.Error != nil {
		return false, fmt.Errorf("ensure account: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// AddPoints credits delta (or debits, when negative) in a single UPDATE so concurrent credits never overwrite each other.
func (r *AccountRepository) AddPoints(ctx context.Context, userID, delta int64) error {
	if _, err := r.EnsureAccount(ctx, userID); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("user_id = ? AND points + ? >= 0", userID, delta).
		Update("points", gorm.Expr("points + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("add points: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientPoints
	}
	return nil
}

// GetPoints returns the balance, or 0 for an account that was never created.
func (r *AccountRepository) GetPoints(ctx context.Context, userID int64) (int64, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Select("points").Where("user_id = ?", userID).Take(&account).Error
	switch {
	case err == nil:
		return account.Points, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return 0, nil
	default:
		return 0, fmt.Errorf("get points: %w", err)
	}
}

// SetReferrer records referrerID only if the account has no referrer yet. Self-referral is never recorded.
func (r *AccountRepository) SetReferrer(ctx context.Context, userID, referrerID int64) (bool, error) {
	if userID == referrerID {
		return false, nil
	}
	res := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("user_id = ? AND referred_by IS NULL", userID).
		Update("referred_by", referrerID)
	if res.Error != nil {
		return false, fmt.Errorf("set referrer: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *AccountRepository) AccountExists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Account{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("find account: %w", err)
	}
	return count > 0, nil
}

func (r *AccountRepository) CountReferrals(ctx context.Context, referrerID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Account{}).Where("referred_by = ?", referrerID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count referrals: %w", err)
	}
	return count, nil
}
