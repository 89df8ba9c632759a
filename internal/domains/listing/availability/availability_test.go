package availability_test

import (
	"rental/internal/domains/listing/availability"
	"rental/internal/domains/reservation/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2030, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestDerive(t *testing.T) {
	deletedAt := day(1)
	today := day(10)

	tests := []struct {
		name         string
		reservations []model.Reservation
		want         bool
	}{
		{
			name: "no reservations",
			want: true,
		},
		{
			name: "current reservation",
			reservations: []model.Reservation{
				{StartDate: day(9), EndDate: day(12), Status: model.StatusConfirmed},
			},
			want: false,
		},
		{
			name: "upcoming reservation",
			reservations: []model.Reservation{
				{StartDate: day(20), EndDate: day(22), Status: model.StatusPending},
			},
			want: false,
		},
		{
			name: "ends today",
			reservations: []model.Reservation{
				{StartDate: day(8), EndDate: day(10), Status: model.StatusConfirmed},
			},
			want: true,
		},
		{
			name: "past only",
			reservations: []model.Reservation{
				{StartDate: day(1), EndDate: day(3), Status: model.StatusCompleted},
			},
			want: true,
		},
		{
			name: "cancelled and tombstoned are ignored",
			reservations: []model.Reservation{
				{StartDate: day(11), EndDate: day(14), Status: model.StatusCancelled},
				{StartDate: day(11), EndDate: day(14), Status: model.StatusPending, DeletedAt: &deletedAt},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, availability.Derive(tt.reservations, today))
		})
	}
}

func TestUpcoming_UsesCalendarDay(t *testing.T) {
	lateToday := time.Date(2030, time.June, 10, 22, 45, 0, 0, time.UTC)

	reservations := []model.Reservation{
		{ID: "a", StartDate: day(10), EndDate: day(11), Status: model.StatusPending},
		{ID: "b", StartDate: day(9), EndDate: day(10), Status: model.StatusPending},
	}

	upcoming := availability.Upcoming(reservations, lateToday)

	assert.Len(t, upcoming, 1)
	assert.Equal(t, "a", upcoming[0].ID)
}
