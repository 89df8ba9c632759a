package overlap_test

import (
	"rental/internal/domains/reservation/model"
	"rental/internal/domains/reservation/overlap"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const listingID = "listing-1"

func day(d int) time.Time {
	return time.Date(2030, time.March, d, 0, 0, 0, 0, time.UTC)
}

func reservation(id string, start, end int, status model.Status) model.Reservation {
	return model.Reservation{
		ID:        id,
		ListingID: listingID,
		StartDate: day(start),
		EndDate:   day(end),
		Status:    status,
	}
}

func TestHasConflict(t *testing.T) {
	existing := []model.Reservation{reservation("r1", 3, 6, model.StatusConfirmed)}

	tests := []struct {
		name      string
		candidate overlap.Interval
		want      bool
	}{
		{name: "fully inside", candidate: overlap.Interval{Start: day(4), End: day(5)}, want: true},
		{name: "same range", candidate: overlap.Interval{Start: day(3), End: day(6)}, want: true},
		{name: "straddles start", candidate: overlap.Interval{Start: day(1), End: day(4)}, want: true},
		{name: "straddles end", candidate: overlap.Interval{Start: day(5), End: day(8)}, want: true},
		{name: "covers existing", candidate: overlap.Interval{Start: day(1), End: day(9)}, want: true},
		{name: "starts when existing ends", candidate: overlap.Interval{Start: day(6), End: day(8)}, want: false},
		{name: "ends when existing starts", candidate: overlap.Interval{Start: day(1), End: day(3)}, want: false},
		{name: "well after", candidate: overlap.Interval{Start: day(10), End: day(12)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overlap.HasConflict(listingID, tt.candidate, existing))
		})
	}
}

func TestHasConflict_IgnoresInactive(t *testing.T) {
	deletedAt := day(1)

	tombstoned := reservation("r2", 1, 4, model.StatusPending)
	tombstoned.DeletedAt = &deletedAt

	otherListing := reservation("r3", 1, 4, model.StatusPending)
	otherListing.ListingID = "listing-2"

	existing := []model.Reservation{
		reservation("r1", 1, 4, model.StatusCancelled),
		tombstoned,
		otherListing,
	}

	assert.False(t, overlap.HasConflict(listingID, overlap.Interval{Start: day(2), End: day(3)}, existing))
}

func TestHasConflict_CompletedStillHoldsDates(t *testing.T) {
	existing := []model.Reservation{reservation("r1", 1, 4, model.StatusCompleted)}

	assert.True(t, overlap.HasConflict(listingID, overlap.Interval{Start: day(3), End: day(5)}, existing))
}

func TestConflicts_ReturnsEveryCollision(t *testing.T) {
	existing := []model.Reservation{
		reservation("r1", 1, 3, model.StatusPending),
		reservation("r2", 3, 5, model.StatusConfirmed),
		reservation("r3", 8, 9, model.StatusConfirmed),
	}

	conflicts := overlap.Conflicts(listingID, overlap.Interval{Start: day(2), End: day(4)}, existing)

	assert.Len(t, conflicts, 2)
	assert.Equal(t, "r1", conflicts[0].ID)
	assert.Equal(t, "r2", conflicts[1].ID)
}

func TestInterval_Valid(t *testing.T) {
	assert.True(t, overlap.Interval{Start: day(1), End: day(2)}.Valid())
	assert.False(t, overlap.Interval{Start: day(2), End: day(2)}.Valid())
	assert.False(t, overlap.Interval{Start: day(3), End: day(2)}.Valid())
}
