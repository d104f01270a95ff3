//go:build unit

package reward_test

import (
	"testing"
	"time"

	"stayops/internal/domain/reward"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int32Ptr(v int32) *int32       { return &v }
func float64Ptr(v float64) *float64 { return &v }

func TestDiscount(t *testing.T) {
	t.Run("exactly one kind", func(t *testing.T) {
		cases := []struct {
			name      string
			amountOff *int32
			percent   *float64
			errIs     error
		}{
			{"flat only", int32Ptr(1000), nil, nil},
			{"percent only", nil, float64Ptr(15), nil},
			{"both set", int32Ptr(1000), float64Ptr(15), reward.ErrInvalidDiscount},
			{"neither set", nil, nil, reward.ErrInvalidDiscount},
			{"negative flat", int32Ptr(-1), nil, reward.ErrInvalidDiscount},
			{"negative percent", nil, float64Ptr(-1), reward.ErrInvalidDiscount},
			{"over 100 percent", nil, float64Ptr(101), reward.ErrInvalidDiscount},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				_, err := reward.NewDiscount(c.amountOff, c.percent)
				if c.errIs == nil {
					require.NoError(t, err)
				} else {
					require.ErrorIs(t, err, c.errIs)
				}
			})
		}
	})

	t.Run("apply", func(t *testing.T) {
		flat, err := reward.NewDiscount(int32Ptr(1000), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(23000), flat.Apply(24000))
		assert.False(t, flat.IsPercentage())

		percent, err := reward.NewDiscount(nil, float64Ptr(15))
		require.NoError(t, err)
		assert.Equal(t, int64(20400), percent.Apply(24000))
		assert.True(t, percent.IsPercentage())

		// a discount never drives the price negative
		assert.Equal(t, int64(0), flat.Apply(500))
	})
}

func TestCode(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("validity window", func(t *testing.T) {
		from := now.Add(-time.Hour)
		to := now.Add(time.Hour)

		cases := []struct {
			name  string
			from  *time.Time
			to    *time.Time
			at    time.Time
			errIs error
		}{
			{"open window", nil, nil, now, nil},
			{"inside window", &from, &to, now, nil},
			{"at lower bound", &from, &to, from, nil},
			{"at upper bound", &from, &to, to, nil},
			{"before window", &from, &to, from.Add(-time.Minute), reward.ErrRewardNotYetValid},
			{"after window", &from, &to, to.Add(time.Minute), reward.ErrRewardExpired},
			{"expired with open start", nil, &to, to.Add(time.Minute), reward.ErrRewardExpired},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				code, err := reward.NewCode(uuid.New(), "WELCOME10", int32Ptr(1000), nil, c.from, c.to)
				require.NoError(t, err)

				err = code.ValidateUsage(c.at)
				if c.errIs == nil {
					require.NoError(t, err)
					assert.True(t, code.IsValidAt(c.at))
				} else {
					require.ErrorIs(t, err, c.errIs)
					assert.False(t, code.IsValidAt(c.at))
				}
			})
		}
	})

	t.Run("invalid discount rejects construction", func(t *testing.T) {
		_, err := reward.NewCode(uuid.New(), "BROKEN", nil, nil, nil, nil)
		assert.ErrorIs(t, err, reward.ErrInvalidDiscount)
	})

	t.Run("discount is applied through the code", func(t *testing.T) {
		code, err := reward.NewCode(uuid.New(), "SPRING15", nil, float64Ptr(15), nil, nil)
		require.NoError(t, err)

		assert.Equal(t, "SPRING15", code.Value())
		assert.Equal(t, int64(20400), code.ApplyDiscount(24000))
	})
}
