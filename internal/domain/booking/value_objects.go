package booking

import (
	"errors"
	"fmt"
	"time"
)

// StayRange is a half-open date range [checkIn, checkOut): the checkout day
// itself is free for the next guest.
type StayRange struct {
	checkIn  time.Time
	checkOut time.Time
}

func NewStayRange(checkIn, checkOut time.Time) (StayRange, error) {
	in := truncateToDay(checkIn)
	out := truncateToDay(checkOut)

	if !in.Before(out) {
		return StayRange{}, errors.New("check-in must be before check-out")
	}

	return StayRange{checkIn: in, checkOut: out}, nil
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func (s StayRange) CheckIn() time.Time {
	return s.checkIn
}

func (s StayRange) CheckOut() time.Time {
	return s.checkOut
}

func (s StayRange) Nights() int {
	return int(s.checkOut.Sub(s.checkIn) / (24 * time.Hour))
}

func (s StayRange) Overlaps(other StayRange) bool {
	return s.checkIn.Before(other.checkOut) && other.checkIn.Before(s.checkOut)
}

func (s StayRange) String() string {
	return fmt.Sprintf("%s..%s", s.checkIn.Format("2006-01-02"), s.checkOut.Format("2006-01-02"))
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) Multiply(n int) Money {
	return Money{cents: m.cents * int64(n)}
}
