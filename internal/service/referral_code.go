package service

import (
	"fmt"
	"strconv"
	"strings"
)

// ReferralCode is the parsed argument of /start.
type ReferralCode struct {
	ReferrerID int64
	Present    bool
}

// ParseReferralCode accepts an empty string (no referral) or a positive user id.
// Anything else yields ErrMalformedInput.
func ParseReferralCode(raw string) (ReferralCode, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ReferralCode{}, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return ReferralCode{}, fmt.Errorf("%w: referral code %q", ErrMalformedInput, raw)
	}
	return ReferralCode{ReferrerID: id, Present: true}, nil
}
