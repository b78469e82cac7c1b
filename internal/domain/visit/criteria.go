// internal/domain/visit/criteria.go
package visit

import (
	"time"

	"vet_reminder_service/internal/domain/timewindow"
)

// DueCriteria is the one definition of a "due" visit set. Dashboard counts,
// visit listings and the dispatch engine all query through a DueCriteria, so
// two callers with the same parameters always select the same visits.
//
// Nil pointer fields mean "do not filter on this at all", which for
// ReminderEnabled is distinct from filtering on false.
type DueCriteria struct {
	WindowStart     time.Time // inclusive, UTC
	WindowEnd       time.Time // inclusive, UTC
	ClinicID        *int64
	VisitType       *string
	ReminderEnabled *bool
}

// DueToday builds the criteria for visits whose reminder falls on the current
// local day in loc, restricted to reminder-enabled visits. A nil clinicID
// means all clinics.
func DueToday(clinicID *int64, now time.Time, loc *time.Location) DueCriteria {
	start, end := timewindow.Day(now, loc)
	enabled := true
	return DueCriteria{
		WindowStart:     start,
		WindowEnd:       end,
		ClinicID:        clinicID,
		ReminderEnabled: &enabled,
	}
}

// Upcoming builds the criteria for visits whose reminder falls between the
// start of today and the end of the local day daysAhead days out. visitType
// and reminderEnabled are optional filters; leaving reminderEnabled nil does
// not filter on the flag.
func Upcoming(clinicID *int64, daysAhead int, now time.Time, loc *time.Location, visitType *string, reminderEnabled *bool) DueCriteria {
	start, end := timewindow.Future(now, daysAhead, loc)
	return DueCriteria{
		WindowStart:     start,
		WindowEnd:       end,
		ClinicID:        clinicID,
		VisitType:       visitType,
		ReminderEnabled: reminderEnabled,
	}
}
