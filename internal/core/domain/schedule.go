package domain

import (
	"github.com/shopspring/decimal"
	"github.com/vesting-network/vesting-daemon/pkg/mathutil"
)

// Schedule defines how a grant unlocks over time. All values are seconds,
// StartTime is a unix timestamp.
type Schedule struct {
	StartTime     uint32
	TotalDuration uint32
	UnlockPeriod  uint32
	CliffDuration uint32
}

func (s Schedule) Validate() error {
	if s.TotalDuration == 0 || s.UnlockPeriod == 0 {
		return ErrInvalidSchedule
	}
	if s.UnlockPeriod > s.TotalDuration || s.CliffDuration > s.TotalDuration {
		return ErrInvalidSchedule
	}
	return nil
}

// CliffEnd is the first instant at which something may be unlocked.
func (s Schedule) CliffEnd() int64 {
	return int64(s.StartTime) + int64(s.CliffDuration)
}

// End is the instant from which the whole amount is unlocked.
func (s Schedule) End() int64 {
	return int64(s.StartTime) + int64(s.TotalDuration)
}

// Unlocked returns the part of total unlocked at t. Unlocking happens in
// discrete steps of UnlockPeriod seconds, nothing unlocks before the cliff.
func (s Schedule) Unlocked(t int64, total decimal.Decimal) decimal.Decimal {
	if s.TotalDuration == 0 || s.UnlockPeriod == 0 || t < s.CliffEnd() {
		return decimal.Zero
	}
	elapsed := t - int64(s.StartTime)
	if elapsed >= int64(s.TotalDuration) {
		return total
	}
	steps := elapsed / int64(s.UnlockPeriod)
	vested := decimal.NewFromInt(steps * int64(s.UnlockPeriod))
	return mathutil.MulDivFloor(total, vested, decimal.NewFromInt(int64(s.TotalDuration)))
}

// Locked returns the part of total still locked at t.
func (s Schedule) Locked(t int64, total decimal.Decimal) decimal.Decimal {
	return total.Sub(s.Unlocked(t, total))
}
