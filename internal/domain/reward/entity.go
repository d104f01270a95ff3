package reward

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRewardExpired     = errors.New("reward code has expired")
	ErrRewardNotYetValid = errors.New("reward code is not yet valid")
	ErrInvalidDiscount   = errors.New("reward must carry exactly one discount kind")
)

// Code is a loyalty reward code redeemable against a booking session's total.
type Code struct {
	id        uuid.UUID
	code      string
	discount  Discount
	validFrom *time.Time
	validTo   *time.Time
}

func NewCode(
	id uuid.UUID,
	code string,
	amountOffCents *int32,
	percentOff *float64,
	validFrom, validTo *time.Time,
) (*Code, error) {
	discount, err := NewDiscount(amountOffCents, percentOff)
	if err != nil {
		return nil, err
	}

	return &Code{
		id:        id,
		code:      code,
		discount:  discount,
		validFrom: validFrom,
		validTo:   validTo,
	}, nil
}

func (c *Code) IsValidAt(t time.Time) bool {
	if c.validFrom != nil && t.Before(*c.validFrom) {
		return false
	}
	if c.validTo != nil && t.After(*c.validTo) {
		return false
	}
	return true
}

func (c *Code) ValidateUsage(t time.Time) error {
	if !c.IsValidAt(t) {
		if c.validFrom != nil && t.Before(*c.validFrom) {
			return ErrRewardNotYetValid
		}
		return ErrRewardExpired
	}
	return nil
}

func (c *Code) ApplyDiscount(basePriceCents int64) int64 {
	return c.discount.Apply(basePriceCents)
}

func (c *Code) ID() uuid.UUID         { return c.id }
func (c *Code) Value() string         { return c.code }
func (c *Code) Discount() Discount    { return c.discount }
func (c *Code) ValidFrom() *time.Time { return c.validFrom }
func (c *Code) ValidTo() *time.Time   { return c.validTo }

type Discount struct {
	amountOffCents *int32
	percentOff     *float64
}

func NewDiscount(amountOffCents *int32, percentOff *float64) (Discount, error) {
	if (amountOffCents == nil) == (percentOff == nil) {
		return Discount{}, ErrInvalidDiscount
	}
	if amountOffCents != nil && *amountOffCents < 0 {
		return Discount{}, ErrInvalidDiscount
	}
	if percentOff != nil && (*percentOff < 0 || *percentOff > 100) {
		return Discount{}, ErrInvalidDiscount
	}
	return Discount{amountOffCents: amountOffCents, percentOff: percentOff}, nil
}

func (d Discount) Apply(basePriceCents int64) int64 {
	result := basePriceCents
	if d.amountOffCents != nil {
		result -= int64(*d.amountOffCents)
	}
	if d.percentOff != nil {
		result = int64(float64(result) * (100.0 - *d.percentOff) / 100.0)
	}
	if result < 0 {
		result = 0
	}
	return result
}

func (d Discount) IsPercentage() bool {
	return d.percentOff != nil
}
