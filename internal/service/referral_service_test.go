package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"referral-bot/internal/model"
	"referral-bot/internal/repository"
)

func testRules() Rules {
	return Rules{
		JoinBonus:         10,
		ReferralBonus:     20,
		MinWithdrawPoints: 300,
		PointRate:         decimal.RequireFromString("0.5"),
		Currency:          "PKR",
	}
}

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "bot.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repository.NewStore(db)
}

func TestJoinWithoutReferral(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewReferralService(store, testRules())

	res, err := svc.Join(ctx, 1, "")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if !res.Created || res.BonusGranted != 10 || res.Balance != 10 || res.ReferrerID != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestJoinBonusGrantedOnce(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewReferralService(store, testRules())

	if _, err := svc.Join(ctx, 1, ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	res, err := svc.Join(ctx, 1, "")
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if res.Created || res.BonusGranted != 0 || res.Balance != 10 {
		t.Fatalf("rejoin granted a bonus: %+v", res)
	}
}

func TestJoinWithReferral(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewReferralService(store, testRules())

	if _, err := svc.Join(ctx, 1001, ""); err != nil {
		t.Fatalf("referrer join: %v", err)
	}
	res, err := svc.Join(ctx, 2, "1001")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if res.Balance != 10 || res.ReferrerID != 1001 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got, _ := store.GetPoints(ctx, 1001); got != 30 {
		t.Fatalf("referrer points=%d want 30", got)
	}

	bal, err := svc.Balance(ctx, 1001)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Referrals != 1 {
		t.Fatalf("referrals=%d want 1", bal.Referrals)
	}
}

func TestJoinReferralIgnored(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"self referral", "2"},
		{"malformed code", "abc"},
		{"negative code", "-5"},
		{"unknown referrer", "555"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newTestStore(t)
			svc := NewReferralService(store, testRules())
			if _, err := svc.Join(ctx, 1001, ""); err != nil {
				t.Fatalf("referrer join: %v", err)
			}

			res, err := svc.Join(ctx, 2, tt.code)
			if err != nil {
				t.Fatalf("join must not fail: %v", err)
			}
			if res.ReferrerID != 0 || res.Balance != 10 {
				t.Fatalf("unexpected result: %+v", res)
			}
			if got, _ := store.GetPoints(ctx, 1001); got != 10 {
				t.Fatalf("referrer credited: %d", got)
			}
		})
	}
}

func TestJoinExistingAccountCannotAddReferrer(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewReferralService(store, testRules())

	for _, id := range []int64{1001, 2} {
		if _, err := svc.Join(ctx, id, ""); err != nil {
			t.Fatalf("join %d: %v", id, err)
		}
	}
	res, err := svc.Join(ctx, 2, "1001")
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if res.ReferrerID != 0 {
		t.Fatalf("late referral credited: %+v", res)
	}
	if got, _ := store.GetPoints(ctx, 1001); got != 10 {
		t.Fatalf("referrer points=%d want 10", got)
	}
}

func TestBalanceAmount(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewReferralService(store, testRules())
	if err := store.AddPoints(ctx, 3, 125); err != nil {
		t.Fatalf("add: %v", err)
	}

	bal, err := svc.Balance(ctx, 3)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Points != 125 || bal.Amount.StringFixed(2) != "62.50" {
		t.Fatalf("unexpected balance: %+v", bal)
	}

	unknown, err := svc.Balance(ctx, 404)
	if err != nil {
		t.Fatalf("balance unknown: %v", err)
	}
	if unknown.Points != 0 {
		t.Fatalf("unknown points=%d", unknown.Points)
	}
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewReferralService(store, testRules())
	if err := store.AddPoints(ctx, 7, 300); err != nil {
		t.Fatalf("add: %v", err)
	}

	req, err := svc.Withdraw(ctx, 7, []string{"easypaisa", "03001234567"})
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if req.Points != 300 || req.Method != "easypaisa" || req.Account != "03001234567" || req.Status != model.WithdrawalPending {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.ID == 0 || req.Reference == "" {
		t.Fatalf("request not persisted: %+v", req)
	}
	if got, _ := store.GetPoints(ctx, 7); got != 0 {
		t.Fatalf("points=%d want 0", got)
	}
	pending, _ := store.PendingWithdrawals(ctx, 0)
	if len(pending) != 1 || pending[0].Points != 300 {
		t.Fatalf("unexpected queue: %+v", pending)
	}
}

func TestWithdrawRejected(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		args    []string
		wantErr error
	}{
		{"below minimum", 50, []string{"easypaisa", "03001234567"}, ErrBelowMinimum},
		{"below minimum without args", 50, nil, ErrBelowMinimum},
		{"missing account", 300, []string{"easypaisa"}, ErrUsage},
		{"no args", 400, nil, ErrUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newTestStore(t)
			svc := NewReferralService(store, testRules())
			if err := store.AddPoints(ctx, 9, tt.balance); err != nil {
				t.Fatalf("add: %v", err)
			}

			_, err := svc.Withdraw(ctx, 9, tt.args)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err=%v want %v", err, tt.wantErr)
			}
			if got, _ := store.GetPoints(ctx, 9); got != tt.balance {
				t.Fatalf("balance changed: %d", got)
			}
			if n, _ := store.CountPending(ctx); n != 0 {
				t.Fatalf("request created: %d", n)
			}
		})
	}
}

func TestConcurrentWithdrawQueuesOnce(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewReferralService(store, testRules())
	if err := store.AddPoints(ctx, 11, 500); err != nil {
		t.Fatalf("add: %v", err)
	}

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Withdraw(ctx, 11, []string{"jazzcash", "0301"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrBelowMinimum):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("successful withdrawals=%d want 1", ok)
	}
	pending, _ := store.PendingWithdrawals(ctx, 0)
	if len(pending) != 1 || pending[0].Points != 500 {
		t.Fatalf("unexpected queue: %+v", pending)
	}
	if got, _ := store.GetPoints(ctx, 11); got != 0 {
		t.Fatalf("points=%d want 0", got)
	}
}

func TestConcurrentJoinAndReferralCredits(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewReferralService(store, testRules())
	if _, err := svc.Join(ctx, 1001, ""); err != nil {
		t.Fatalf("referrer join: %v", err)
	}

	const invitees = 10
	var wg sync.WaitGroup
	errs := make(chan error, invitees)
	for i := 0; i < invitees; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := svc.Join(ctx, id, "1001")
			errs <- err
		}(int64(2000 + i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("join: %v", err)
		}
	}

	if got, _ := store.GetPoints(ctx, 1001); got != 10+invitees*20 {
		t.Fatalf("referrer points=%d want %d", got, 10+invitees*20)
	}
}
