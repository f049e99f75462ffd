package service

import (
	"github.com/shopspring/decimal"

	"referral-bot/internal/config"
)

// Rules are the reward settings, fixed for the lifetime of the process.
type Rules struct {
	JoinBonus         int64
	ReferralBonus     int64
	MinWithdrawPoints int64
	PointRate         decimal.Decimal
	Currency          string
}

func RulesFromConfig(cfg config.Config) Rules {
	return Rules{
		JoinBonus:         cfg.JoinBonus,
		ReferralBonus:     cfg.ReferralBonus,
		MinWithdrawPoints: cfg.MinWithdrawPoints,
		PointRate:         cfg.PointRate,
		Currency:          cfg.Currency,
	}
}

// Amount converts points to currency. Used for display only.
func (r Rules) Amount(points int64) decimal.Decimal {
	return decimal.NewFromInt(points).Mul(r.PointRate)
}

// FormatAmount renders Amount with two decimals.
func (r Rules) FormatAmount(points int64) string {
	return r.Amount(points).StringFixed(2)
}
