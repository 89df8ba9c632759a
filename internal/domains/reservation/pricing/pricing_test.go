package pricing_test

import (
	"rental/internal/domains/reservation/model"
	"rental/internal/domains/reservation/pricing"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(month time.Month, day int) time.Time {
	return time.Date(2030, month, day, 0, 0, 0, 0, time.UTC)
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name    string
		rate    string
		start   time.Time
		end     time.Time
		want    string
		wantErr error
	}{
		{name: "three days", rate: "25.00", start: date(time.March, 1), end: date(time.March, 4), want: "75"},
		{name: "single day", rate: "19.99", start: date(time.March, 1), end: date(time.March, 2), want: "19.99"},
		{name: "exact cents", rate: "0.10", start: date(time.March, 1), end: date(time.March, 4), want: "0.3"},
		{name: "crosses month", rate: "33.33", start: date(time.January, 30), end: date(time.February, 2), want: "99.99"},
		{name: "same day", rate: "25.00", start: date(time.March, 1), end: date(time.March, 1), wantErr: model.ErrInvalidRange},
		{name: "end before start", rate: "25.00", start: date(time.March, 4), end: date(time.March, 1), wantErr: model.ErrInvalidRange},
		{name: "zero rate", rate: "0", start: date(time.March, 1), end: date(time.March, 4), wantErr: pricing.ErrInvalidRate},
		{name: "negative rate", rate: "-5", start: date(time.March, 1), end: date(time.March, 4), wantErr: pricing.ErrInvalidRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pricing.Price(decimal.RequireFromString(tt.rate), tt.start, tt.end)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestPrice_NoFloatDrift(t *testing.T) {
	got, err := pricing.Price(decimal.RequireFromString("0.1"), date(time.March, 1), date(time.March, 31))

	require.NoError(t, err)
	assert.Equal(t, "3.00", got.StringFixed(2))
}

func TestDayCount(t *testing.T) {
	days, err := pricing.DayCount(
		time.Date(2030, time.March, 1, 23, 30, 0, 0, time.UTC),
		time.Date(2030, time.March, 3, 0, 15, 0, 0, time.UTC),
	)

	require.NoError(t, err)
	assert.Equal(t, 2, days)
}
