// Package timezone pins wall-clock time to the zone named by APP_TIMEZONE.
//
// Reservation dates are calendar days with no zone, so "today" must be taken in the zone the
// business operates in and then compared as a plain date:
//
//	today := timezone.Today()          // 2030-03-02 00:00:00 UTC
//	stamp := timezone.Format(t, time.RFC3339)
//
// An unknown or empty zone falls back to UTC.
package timezone
