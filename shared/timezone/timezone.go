package timezone

import (
	"rental/config"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	location     *time.Location
	locationOnce sync.Once
)

func appLocation() *time.Location {
	locationOnce.Do(func() {
		location = resolve(config.Get().App.Timezone)
	})

	return location
}

// resolve loads an IANA zone name, falling back to UTC.
func resolve(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return loc
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(appLocation())
}

// Today is the current calendar day in the application timezone, as midnight UTC.
// Reservation dates are stored the same way, so the two compare directly.
func Today() time.Time {
	return DateOf(Now())
}

// DateOf drops the clock and zone of t, keeping its calendar day.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func Location() *time.Location {
	return appLocation()
}

// Parse parses value in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, appLocation()) //nolint:wrapcheck
}

// Format renders t in the application timezone.
func Format(t time.Time, layout string) string {
	return t.In(appLocation()).Format(layout)
}
