package pricing

import (
	"errors"
	"fmt"
	"rental/internal/domains/reservation/model"
	"rental/shared/timezone"
	"time"

	"github.com/shopspring/decimal"
)

const (
	hoursPerDay = 24
	scale       = 2
)

var ErrInvalidRate = errors.New("day rate must be positive")

// DateOf truncates t to its calendar date, expressed as midnight UTC.
func DateOf(t time.Time) time.Time {
	return timezone.DateOf(t)
}

// DayCount is the number of whole days in [start, end).
func DayCount(start, end time.Time) (int, error) {
	days := int(DateOf(end).Sub(DateOf(start)).Hours() / hoursPerDay)
	if days < 1 {
		return 0, fmt.Errorf("%w: end must be at least one day after start", model.ErrInvalidRange)
	}

	return days, nil
}

// Price multiplies the day rate by the day count without any float rounding, then fixes the
// result to two decimal places.
func Price(dayRate decimal.Decimal, start, end time.Time) (decimal.Decimal, error) {
	if !dayRate.IsPositive() {
		return decimal.Zero, ErrInvalidRate
	}

	days, err := DayCount(start, end)
	if err != nil {
		return decimal.Zero, err
	}

	return dayRate.Mul(decimal.NewFromInt(int64(days))).Round(scale), nil
}
