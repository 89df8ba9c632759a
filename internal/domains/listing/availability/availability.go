// Package availability derives a listing's cached "available" flag from its reservations.
//
// A listing is available when none of its active reservations is current or upcoming, that is
// none ends after today. The flag is informational; reservations are always admitted by the
// overlap check, never by this flag.
package availability

import (
	"rental/internal/domains/reservation/model"
	"rental/internal/domains/reservation/pricing"
	"time"
)

func Derive(reservations []model.Reservation, today time.Time) bool {
	return len(Upcoming(reservations, today)) == 0
}

// Upcoming returns the active reservations that end after today.
func Upcoming(reservations []model.Reservation, today time.Time) []model.Reservation {
	day := pricing.DateOf(today)

	var upcoming []model.Reservation

	for _, reservation := range reservations {
		if !reservation.IsActive() {
			continue
		}

		if pricing.DateOf(reservation.EndDate).After(day) {
			upcoming = append(upcoming, reservation)
		}
	}

	return upcoming
}
