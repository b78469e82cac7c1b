package clinic

import (
	"context"
	"time"
)

// Repository defines the operations for persisting and retrieving Clinic
// entities, including the two quota-state mutations owned by the scheduled
// jobs.
type Repository interface {
	Create(ctx context.Context, c *Clinic) error
	GetByID(ctx context.Context, id int64) (*Clinic, error)
	Update(ctx context.Context, c *Clinic) error
	ListActive(ctx context.Context) ([]*Clinic, error)

	// ListQuotaResetCandidates returns active clinics with an unexpired
	// subscription, a positive monthly limit and a started cycle, i.e. the
	// population the quota cycle job scans.
	ListQuotaResetCandidates(ctx context.Context, now time.Time) ([]*Clinic, error)

	// ResetQuotaCycle zeroes the cycle counter and anchors the cycle at
	// cycleStart in a single update.
	ResetQuotaCycle(ctx context.Context, clinicID int64, cycleStart time.Time) error

	// IncrementRemindersSent atomically increments the cycle counter while it
	// is still below the monthly limit. Returns false (and no error) when the
	// limit was already reached, so concurrent sends for the same clinic can
	// never over-count.
	IncrementRemindersSent(ctx context.Context, clinicID int64) (bool, error)
}
