// internal/domain/visit/visit.go
package visit

import (
	"database/sql"
	"time"
)

// ReminderOutcome records what happened on the dispatch engine's single
// allowed pass over a visit. Only OutcomePending visits are ever selected for
// dispatch; every other value is final.
type ReminderOutcome string

const (
	OutcomePending      ReminderOutcome = "PENDING"
	OutcomeSent         ReminderOutcome = "SENT"
	OutcomeSkippedQuota ReminderOutcome = "SKIPPED_QUOTA"
	OutcomeFailed       ReminderOutcome = "FAILED"
)

// Attempted reports whether the dispatch engine has already made its pass.
func (o ReminderOutcome) Attempted() bool {
	return o != OutcomePending
}

// Visit is a single clinical visit of a pet. NextReminderDate drives the
// follow-up reminder; ReminderOutcome is written exactly once, by the
// dispatch engine, and never reset.
type Visit struct {
	ID                int64
	PetID             int64
	VisitDate         time.Time
	VisitType         string // free-text tag, e.g. "vaccination"
	Description       string
	NextReminderDate  sql.NullTime
	IsReminderEnabled bool // per-visit opt-out
	ReminderOutcome   ReminderOutcome
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
