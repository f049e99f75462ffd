package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"referral-bot/internal/model"
	"referral-bot/internal/repository"
)

const digestLimit = 10

// DigestService builds the admin summary of withdrawal requests still waiting for payout.
type DigestService struct {
	store repository.Ledger
	rules Rules
}

func NewDigestService(store repository.Ledger, rules Rules) *DigestService {
	return &DigestService{store: store, rules: rules}
}

// PendingSummary renders the oldest pending requests as HTML. count is the total number pending.
func (s *DigestService) PendingSummary(ctx context.Context, now time.Time) (text string, count int64, err error) {
	count, err = s.store.CountPending(ctx)
	if err != nil {
		return "", 0, err
	}
	requests, err := s.store.PendingWithdrawals(ctx, digestLimit)
	if err != nil {
		return "", 0, err
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📋 <b>Pending withdrawals: %d</b>\n", count))
	builder.WriteString(fmt.Sprintf("🗓 %s\n", now.Format("2006-01-02 15:04")))
	if count == 0 {
		builder.WriteString("\n— nothing to pay out\n")
		return strings.TrimSpace(builder.String()), 0, nil
	}

	builder.WriteByte('\n')
	for _, req := range requests {
		builder.WriteString(s.formatRequest(req, now))
	}
	if rest := count - int64(len(requests)); rest > 0 {
		builder.WriteString(fmt.Sprintf("… and %d more\n", rest))
	}
	return strings.TrimSpace(builder.String()), count, nil
}

func (s *DigestService) formatRequest(req model.WithdrawalRequest, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("• #%d user <code>%d</code>: %d pts (%s %s)\n",
		req.ID, req.UserID, req.Points, s.rules.FormatAmount(req.Points), html.EscapeString(s.rules.Currency)))
	sb.WriteString(fmt.Sprintf("   %s · <code>%s</code>\n", html.EscapeString(req.Method), html.EscapeString(req.Account)))
	sb.WriteString(fmt.Sprintf("   ref <code>%s</code> · waiting %s\n", req.Reference, waitingFor(now.Sub(req.CreatedAt))))
	return sb.String()
}

func waitingFor(d time.Duration) string {
	switch {
	case d < time.Hour:
		return "&lt;1h"
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
