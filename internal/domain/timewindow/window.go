// internal/domain/timewindow/window.go
package timewindow

import (
	"fmt"
	"log"
	"time"
)

// ParseTimezone resolves an IANA timezone name. Unlike time.LoadLocation it
// treats an empty name as invalid, so callers always make the UTC fallback an
// explicit decision.
func ParseTimezone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("timezone name is empty")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// LocationOrUTC is the standard fallback used by callers that must not fail on
// a bad clinic timezone: it resolves the name and logs once when falling back.
func LocationOrUTC(name string, logger *log.Logger) *time.Location {
	loc, err := ParseTimezone(name)
	if err != nil {
		if logger != nil {
			logger.Printf("WARN: %v. Falling back to UTC.", err)
		}
		return time.UTC
	}
	return loc
}

// Day returns the UTC instants for 00:00:00.000 and 23:59:59.999 of the
// current local day in loc. Boundaries are computed in local wall-clock time
// and then converted, so the window is 23-25 hours across DST transitions.
func Day(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	return startOfDay(local).UTC(), endOfDay(local).UTC()
}

// Future returns the UTC instants spanning the start of the current local day
// through the end of the local day daysAhead days from now.
func Future(now time.Time, daysAhead int, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := startOfDay(local)
	end := endOfDay(local.AddDate(0, 0, daysAhead))
	return start.UTC(), end.UTC()
}

// Dispatch returns the fixed window scanned by the dispatch job: UTC midnight
// of today through 23:59:59.999 UTC of tomorrow. Deliberately coarser than
// Day/Future and independent of any clinic timezone; it is the job's
// catch-net, not a definition of "due today".
func Dispatch(now time.Time) (time.Time, time.Time) {
	utc := now.UTC()
	return startOfDay(utc), endOfDay(utc.AddDate(0, 0, 1))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999*int(time.Millisecond), t.Location())
}
