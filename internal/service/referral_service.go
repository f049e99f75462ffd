package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"referral-bot/internal/model"
	"referral-bot/internal/repository"
)

var (
	ErrMalformedInput = errors.New("malformed input")
	ErrBelowMinimum   = errors.New("balance below withdrawal minimum")
	ErrUsage          = errors.New("withdraw needs a method and an account")
)

// Store is the ledger plus the ability to group writes into one transaction.
type Store interface {
	repository.Ledger
	Transaction(ctx context.Context, fn func(tx repository.Ledger) error) error
}

// JoinResult describes what a /start did.
type JoinResult struct {
	Created      bool
	BonusGranted int64
	Balance      int64
	// ReferrerID is set only when the referral bonus was credited.
	ReferrerID int64
}

type BalanceResult struct {
	Points    int64
	Amount    decimal.Decimal
	Referrals int64
}

// ReferralService implements joining, balance checks and withdrawals on top of a Store.
type ReferralService struct {
	store Store
	rules Rules
}

func NewReferralService(store Store, rules Rules) *ReferralService {
	return &ReferralService{store: store, rules: rules}
}

func (s *ReferralService) Rules() Rules {
	return s.rules
}

// Join registers userID. Bonuses are granted only when the account is new; a malformed
// referral code is treated as no referral.
func (s *ReferralService) Join(ctx context.Context, userID int64, rawCode string) (*JoinResult, error) {
	code, err := ParseReferralCode(rawCode)
	if err != nil {
		log.Printf("[info] ignore referral for user=%d: %v", userID, err)
		code = ReferralCode{}
	}

	var result JoinResult
	err = s.store.Transaction(ctx, func(tx repository.Ledger) error {
		created, err := tx.EnsureAccount(ctx, userID)
		if err != nil {
			return err
		}
		result.Created = created

		if created {
			referrerID, err := s.applyReferral(ctx, tx, userID, code)
			if err != nil {
				return err
			}
			result.ReferrerID = referrerID

			if err := tx.AddPoints(ctx, userID, s.rules.JoinBonus); err != nil {
				return err
			}
			result.BonusGranted = s.rules.JoinBonus
		}

		balance, err := tx.GetPoints(ctx, userID)
		if err != nil {
			return err
		}
		result.Balance = balance
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("join: %w", err)
	}
	return &result, nil
}

// applyReferral links userID to an existing referrer and credits the referral bonus.
// It returns the credited referrer, or 0.
func (s *ReferralService) applyReferral(ctx context.Context, tx repository.Ledger, userID int64, code ReferralCode) (int64, error) {
	if !code.Present || code.ReferrerID == userID {
		return 0, nil
	}
	exists, err := tx.AccountExists(ctx, code.ReferrerID)
	if err != nil {
		return 0, err
	}
	if !exists {
		log.Printf("[info] unknown referrer=%d for user=%d", code.ReferrerID, userID)
		return 0, nil
	}
	linked, err := tx.SetReferrer(ctx, userID, code.ReferrerID)
	if err != nil || !linked {
		return 0, err
	}
	if err := tx.AddPoints(ctx, code.ReferrerID, s.rules.ReferralBonus); err != nil {
		return 0, err
	}
	return code.ReferrerID, nil
}

func (s *ReferralService) Balance(ctx context.Context, userID int64) (*BalanceResult, error) {
	points, err := s.store.GetPoints(ctx, userID)
	if err != nil {
		return nil, err
	}
	referrals, err := s.store.CountReferrals(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &BalanceResult{
		Points:    points,
		Amount:    s.rules.Amount(points),
		Referrals: referrals,
	}, nil
}

// Withdraw queues the caller's whole balance for payout and zeroes it in the same transaction.
// args are the command arguments: method, then account.
func (s *ReferralService) Withdraw(ctx context.Context, userID int64, args []string) (*model.WithdrawalRequest, error) {
	points, err := s.store.GetPoints(ctx, userID)
	if err != nil {
		return nil, err
	}
	if points < s.rules.MinWithdrawPoints {
		return nil, ErrBelowMinimum
	}
	if len(args) < 2 || strings.TrimSpace(args[0]) == "" || strings.TrimSpace(args[1]) == "" {
		return nil, ErrUsage
	}

	req := &model.WithdrawalRequest{
		UserID:  userID,
		Method:  strings.TrimSpace(args[0]),
		Account: strings.TrimSpace(args[1]),
	}
	err = s.store.Transaction(ctx, func(tx repository.Ledger) error {
		// Re-read inside the transaction: another withdraw may have won the race.
		balance, err := tx.GetPoints(ctx, userID)
		if err != nil {
			return err
		}
		if balance < s.rules.MinWithdrawPoints {
			return ErrBelowMinimum
		}
		req.Points = balance
		if err := tx.Enqueue(ctx, req); err != nil {
			return err
		}
		return tx.AddPoints(ctx, userID, -balance)
	})
	if err != nil {
		if errors.Is(err, ErrBelowMinimum) {
			return nil, err
		}
		return nil, fmt.Errorf("withdraw: %w", err)
	}
	return req, nil
}
