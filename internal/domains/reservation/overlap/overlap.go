// Package overlap decides whether a requested day range collides with reservations already
// holding a listing. Ranges are half-open, so a stay ending on the day another begins is fine.
package overlap

import (
	"rental/internal/domains/reservation/model"
	"time"
)

type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// Overlaps reports whether [i.Start, i.End) and [o.Start, o.End) share at least one instant.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}

func Of(reservation model.Reservation) Interval {
	return Interval{Start: reservation.StartDate, End: reservation.EndDate}
}

// Conflicts returns the active reservations of listingID whose range overlaps candidate.
// Reservations for other listings, cancelled ones and tombstoned ones are ignored.
func Conflicts(listingID string, candidate Interval, existing []model.Reservation) []model.Reservation {
	var conflicts []model.Reservation

	for _, reservation := range existing {
		if reservation.ListingID != listingID || !reservation.IsActive() {
			continue
		}

		if Of(reservation).Overlaps(candidate) {
			conflicts = append(conflicts, reservation)
		}
	}

	return conflicts
}

func HasConflict(listingID string, candidate Interval, existing []model.Reservation) bool {
	return len(Conflicts(listingID, candidate, existing)) > 0
}
