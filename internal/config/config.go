package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config keeps runtime settings for the bot. Reward rules are read once and never change.
type Config struct {
	TelegramToken   string  `env:"BOT_TOKEN,required,notEmpty"`
	ChannelUsername string  `env:"CHANNEL_USERNAME" envDefault:"@YourChannel"`
	AdminIDs        []int64 `env:"ADMIN_IDS" envSeparator:","`
	DatabaseURL     string  `env:"DB_PATH" envDefault:"referral_bot.db"`

	JoinBonus         int64           `env:"JOIN_BONUS" envDefault:"10"`
	ReferralBonus     int64           `env:"REFERRAL_BONUS" envDefault:"20"`
	MinWithdrawPoints int64           `env:"MIN_WITHDRAW_POINTS" envDefault:"300"`
	PointRate         decimal.Decimal `env:"POINT_TO_PKR_RATE" envDefault:"0.5"`
	Currency          string          `env:"CURRENCY" envDefault:"PKR"`

	DigestInterval time.Duration `env:"PENDING_DIGEST_INTERVAL" envDefault:"24h"`
	DigestAt       string        `env:"PENDING_DIGEST_AT"`

	CommandRate  float64 `env:"COMMAND_RATE" envDefault:"1"`
	CommandBurst int     `env:"COMMAND_BURST" envDefault:"5"`
}

// Load reads configuration from the environment, after loading .env if one is present.
func Load() (Config, error) {
	_ = godotenv.Load()
	return parse(env.Options{})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	cfg.Currency = strings.TrimSpace(cfg.Currency)
	cfg.DigestAt = strings.TrimSpace(cfg.DigestAt)
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.JoinBonus < 0 {
		errs = append(errs, fmt.Errorf("JOIN_BONUS must not be negative"))
	}
	if c.ReferralBonus < 0 {
		errs = append(errs, fmt.Errorf("REFERRAL_BONUS must not be negative"))
	}
	if c.MinWithdrawPoints < 1 {
		errs = append(errs, fmt.Errorf("MIN_WITHDRAW_POINTS must be at least 1"))
	}
	if c.PointRate.IsNegative() {
		errs = append(errs, fmt.Errorf("POINT_TO_PKR_RATE must not be negative"))
	}
	if c.DigestInterval < 0 {
		errs = append(errs, fmt.Errorf("PENDING_DIGEST_INTERVAL must not be negative"))
	}
	if c.DigestAt != "" {
		if _, _, err := ParseClock(c.DigestAt); err != nil {
			errs = append(errs, fmt.Errorf("PENDING_DIGEST_AT: %w", err))
		}
	}
	if c.CommandRate < 0 {
		errs = append(errs, fmt.Errorf("COMMAND_RATE must not be negative"))
	}
	if c.CommandRate > 0 && c.CommandBurst < 1 {
		errs = append(errs, fmt.Errorf("COMMAND_BURST must be at least 1"))
	}
	return errors.Join(errs...)
}

// IsAdmin reports whether userID is listed in ADMIN_IDS.
func (c Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ParseClock parses an HH:MM wall-clock time.
func ParseClock(raw string) (hour, minute int, err error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", raw)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return hour, minute, nil
}
