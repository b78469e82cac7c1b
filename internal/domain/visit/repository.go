// internal/domain/visit/repository.go
package visit

import (
	"context"
	"database/sql"
	"time"

	"vet_reminder_service/internal/domain/clinic"
)

// DispatchCandidate is one row of the dispatch engine's candidate query: a
// pending visit joined with the owner's phone, the pet's name and a snapshot
// of the owning clinic's quota state as of query time.
type DispatchCandidate struct {
	VisitID          int64
	VisitType        string
	NextReminderDate sql.NullTime
	PetName          string
	OwnerPhone       string
	Clinic           clinic.Clinic
}

// Repository defines operations for persisting and querying Visit entities,
// including the due-set queries shared by dashboards, listings and the
// dispatch engine.
type Repository interface {
	Create(ctx context.Context, v *Visit) error
	GetByID(ctx context.Context, id int64) (*Visit, error)
	Update(ctx context.Context, v *Visit) error
	ListByPet(ctx context.Context, petID int64) ([]*Visit, error)

	// ListDue and CountDue evaluate the same DueCriteria over the same
	// predicate; count(criteria) always equals len(list(criteria)).
	ListDue(ctx context.Context, crit DueCriteria) ([]*Visit, error)
	CountDue(ctx context.Context, crit DueCriteria) (int, error)

	// ListDispatchCandidates selects pending, reminder-enabled visits due
	// inside [windowStart, windowEnd] whose owner has consented and whose
	// clinic is active, allowed to send, and subscribed through now.
	ListDispatchCandidates(ctx context.Context, windowStart, windowEnd, now time.Time) ([]*DispatchCandidate, error)

	// SetReminderOutcome records the dispatch engine's single pass over a
	// visit. It only transitions away from PENDING.
	SetReminderOutcome(ctx context.Context, visitID int64, outcome ReminderOutcome) error
}
