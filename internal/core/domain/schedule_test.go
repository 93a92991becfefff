package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

const day = 24 * 60 * 60

func TestScheduleUnlocked(t *testing.T) {
	t.Parallel()

	now := int64(1_700_000_000)
	total := decimal.NewFromInt(1000)
	schedule := domain.Schedule{
		StartTime:     uint32(now + 3600),
		TotalDuration: 30 * day,
		UnlockPeriod:  day,
		CliffDuration: 7 * day,
	}
	start := int64(schedule.StartTime)

	tests := []struct {
		name   string
		at     int64
		assert func(t *testing.T, unlocked, locked decimal.Decimal)
	}{
		{
			name: "before_start",
			at:   now,
			assert: func(t *testing.T, unlocked, locked decimal.Decimal) {
				require.True(t, unlocked.IsZero())
				require.True(t, locked.Equal(total))
			},
		},
		{
			name: "within_cliff",
			at:   start + 3*day,
			assert: func(t *testing.T, unlocked, locked decimal.Decimal) {
				require.True(t, unlocked.IsZero())
				require.True(t, locked.Equal(total))
			},
		},
		{
			name: "past_cliff",
			at:   start + 10*day,
			assert: func(t *testing.T, unlocked, locked decimal.Decimal) {
				require.True(t, unlocked.IsPositive())
				require.True(t, unlocked.LessThan(total))
				// 1000 * 10d / 30d floored.
				require.Equal(t, "333", unlocked.String())
			},
		},
		{
			name: "between_steps",
			at:   start + 10*day + day/2,
			assert: func(t *testing.T, unlocked, locked decimal.Decimal) {
				require.Equal(t, "333", unlocked.String())
			},
		},
		{
			name: "at_end",
			at:   start + 30*day,
			assert: func(t *testing.T, unlocked, locked decimal.Decimal) {
				require.True(t, unlocked.Equal(total))
				require.True(t, locked.IsZero())
			},
		},
		{
			name: "after_end",
			at:   start + 365*day,
			assert: func(t *testing.T, unlocked, locked decimal.Decimal) {
				require.True(t, unlocked.Equal(total))
			},
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			unlocked := schedule.Unlocked(tt.at, total)
			locked := schedule.Locked(tt.at, total)
			require.True(t, unlocked.Add(locked).Equal(total))
			tt.assert(t, unlocked, locked)
		})
	}
}

func TestScheduleUnlockedIsMonotonic(t *testing.T) {
	t.Parallel()

	total := decimal.RequireFromString("340282366920938463463374607431768211455")
	schedule := domain.Schedule{
		StartTime:     1000,
		TotalDuration: 10*day + 7,
		UnlockPeriod:  day,
		CliffDuration: 2 * day,
	}

	prev := decimal.Zero
	for at := int64(0); at <= int64(schedule.End())+day; at += 3600 {
		unlocked := schedule.Unlocked(at, total)
		require.True(t, unlocked.GreaterThanOrEqual(prev), "at %d", at)
		require.True(t, unlocked.Add(schedule.Locked(at, total)).Equal(total))
		prev = unlocked
	}
	// The duration is not a multiple of the period, still everything is
	// unlocked at the end.
	require.True(t, schedule.Unlocked(schedule.End(), total).Equal(total))
}

func TestScheduleValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		schedule domain.Schedule
		err      error
	}{
		{
			name:     "valid",
			schedule: domain.Schedule{StartTime: 0, TotalDuration: 100, UnlockPeriod: 10, CliffDuration: 20},
		},
		{
			name:     "zero_duration",
			schedule: domain.Schedule{StartTime: 0, TotalDuration: 0, UnlockPeriod: 10, CliffDuration: 0},
			err:      domain.ErrInvalidSchedule,
		},
		{
			name:     "zero_period",
			schedule: domain.Schedule{StartTime: 0, TotalDuration: 100, UnlockPeriod: 0, CliffDuration: 0},
			err:      domain.ErrInvalidSchedule,
		},
		{
			name:     "period_longer_than_duration",
			schedule: domain.Schedule{StartTime: 0, TotalDuration: 100, UnlockPeriod: 101, CliffDuration: 0},
			err:      domain.ErrInvalidSchedule,
		},
		{
			name:     "cliff_longer_than_duration",
			schedule: domain.Schedule{StartTime: 0, TotalDuration: 100, UnlockPeriod: 10, CliffDuration: 101},
			err:      domain.ErrInvalidSchedule,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.schedule.Validate()
			if tt.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.err)
		})
	}
}
