// internal/infra/database/postgres_visit_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"vet_reminder_service/internal/domain/visit"

	_ "github.com/lib/pq" // PostgreSQL driver
)

var ErrVisitNotFound = fmt.Errorf("visit not found")

type PostgresVisitRepository struct {
	db *sql.DB
}

func NewPostgresVisitRepository(db *sql.DB) *PostgresVisitRepository {
	return &PostgresVisitRepository{db: db}
}

const visitColumns = `v.id, v.pet_id, v.visit_date, v.visit_type, v.description,
               v.next_reminder_date, v.is_reminder_enabled, v.reminder_outcome, v.created_at, v.updated_at`

func scanVisit(row interface{ Scan(...any) error }) (*visit.Visit, error) {
	v := &visit.Visit{}
	err := row.Scan(&v.ID, &v.PetID, &v.VisitDate, &v.VisitType, &v.Description,
		&v.NextReminderDate, &v.IsReminderEnabled, &v.ReminderOutcome, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *PostgresVisitRepository) Create(ctx context.Context, v *visit.Visit) error {
	if v.ReminderOutcome == "" {
		v.ReminderOutcome = visit.OutcomePending
	}
	query := `INSERT INTO visits (pet_id, visit_date, visit_type, description, next_reminder_date,
               is_reminder_enabled, reminder_outcome)
               VALUES ($1, $2, $3, $4, $5, $6, $7)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, v.PetID, v.VisitDate, v.VisitType, v.Description,
		v.NextReminderDate, v.IsReminderEnabled, v.ReminderOutcome).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating visit: %w", err)
	}
	return nil
}

func (r *PostgresVisitRepository) GetByID(ctx context.Context, id int64) (*visit.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM visits v WHERE v.id = $1`
	v, err := scanVisit(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrVisitNotFound
		}
		return nil, fmt.Errorf("error getting visit by ID: %w", err)
	}
	return v, nil
}

func (r *PostgresVisitRepository) Update(ctx context.Context, v *visit.Visit) error {
	query := `UPDATE visits
               SET visit_date = $1, visit_type = $2, description = $3, next_reminder_date = $4,
                   is_reminder_enabled = $5, updated_at = NOW()
               WHERE id = $6
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, v.VisitDate, v.VisitType, v.Description,
		v.NextReminderDate, v.IsReminderEnabled, v.ID).Scan(&v.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrVisitNotFound
		}
		return fmt.Errorf("error updating visit: %w", err)
	}
	return nil
}

func (r *PostgresVisitRepository) ListByPet(ctx context.Context, petID int64) ([]*visit.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM visits v WHERE v.pet_id = $1 ORDER BY v.visit_date DESC`

	rows, err := r.db.QueryContext(ctx, query, petID)
	if err != nil {
		return nil, fmt.Errorf("error listing visits by pet: %w", err)
	}
	defer rows.Close()
	return collectVisits(rows)
}

// buildDueWhere renders a DueCriteria into a WHERE clause and its arguments.
// ListDue and CountDue both go through this single function, which is what
// makes "count equals len(list)" hold by construction rather than by
// discipline.
func buildDueWhere(crit visit.DueCriteria) (string, []any) {
	conds := []string{
		"v.next_reminder_date IS NOT NULL",
		"v.next_reminder_date >= $1",
		"v.next_reminder_date <= $2",
	}
	args := []any{crit.WindowStart, crit.WindowEnd}

	if crit.ReminderEnabled != nil {
		args = append(args, *crit.ReminderEnabled)
		conds = append(conds, "v.is_reminder_enabled = $"+strconv.Itoa(len(args)))
	}
	if crit.VisitType != nil {
		args = append(args, *crit.VisitType)
		conds = append(conds, "v.visit_type = $"+strconv.Itoa(len(args)))
	}
	if crit.ClinicID != nil {
		args = append(args, *crit.ClinicID)
		conds = append(conds, "o.clinic_id = $"+strconv.Itoa(len(args)))
	}
	return strings.Join(conds, " AND "), args
}

const dueFromClause = ` FROM visits v
               JOIN pets p ON p.id = v.pet_id
               JOIN owners o ON o.id = p.owner_id
               WHERE `

func (r *PostgresVisitRepository) ListDue(ctx context.Context, crit visit.DueCriteria) ([]*visit.Visit, error) {
	where, args := buildDueWhere(crit)
	query := `SELECT ` + visitColumns + dueFromClause + where + ` ORDER BY v.next_reminder_date, v.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing due visits: %w", err)
	}
	defer rows.Close()
	return collectVisits(rows)
}

func (r *PostgresVisitRepository) CountDue(ctx context.Context, crit visit.DueCriteria) (int, error) {
	where, args := buildDueWhere(crit)
	query := `SELECT COUNT(*)` + dueFromClause + where

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting due visits: %w", err)
	}
	return count, nil
}

// ListDispatchCandidates joins the full consent chain: the visit must be
// pending and reminder-enabled inside the window, the owner must have
// consented, and the clinic must be active, allowed to send, and subscribed
// through now. The clinic columns are a point-in-time quota snapshot.
func (r *PostgresVisitRepository) ListDispatchCandidates(ctx context.Context, windowStart, windowEnd, now time.Time) ([]*visit.DispatchCandidate, error) {
	query := `SELECT v.id, v.visit_type, v.next_reminder_date, p.name, o.phone,
               c.id, c.name, c.phone, c.is_active, c.subscription_end_date, c.can_send_reminders,
               c.timezone, c.reminder_monthly_limit, c.reminders_sent_this_cycle, c.current_cycle_start_date,
               c.created_at, c.updated_at
               FROM visits v
               JOIN pets p ON p.id = v.pet_id
               JOIN owners o ON o.id = p.owner_id
               JOIN clinics c ON c.id = o.clinic_id
               WHERE v.reminder_outcome = $1
                 AND v.is_reminder_enabled = TRUE
                 AND v.next_reminder_date IS NOT NULL
                 AND v.next_reminder_date >= $2
                 AND v.next_reminder_date <= $3
                 AND o.allow_automated_reminders = TRUE
                 AND c.is_active = TRUE
                 AND c.can_send_reminders = TRUE
                 AND c.subscription_end_date IS NOT NULL
                 AND c.subscription_end_date >= $4
               ORDER BY v.next_reminder_date, v.id`

	rows, err := r.db.QueryContext(ctx, query, visit.OutcomePending, windowStart, windowEnd, now)
	if err != nil {
		return nil, fmt.Errorf("error listing dispatch candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]*visit.DispatchCandidate, 0)
	for rows.Next() {
		cand := &visit.DispatchCandidate{}
		c := &cand.Clinic
		if err := rows.Scan(&cand.VisitID, &cand.VisitType, &cand.NextReminderDate, &cand.PetName, &cand.OwnerPhone,
			&c.ID, &c.Name, &c.Phone, &c.IsActive, &c.SubscriptionEndDate, &c.CanSendReminders,
			&c.Timezone, &c.ReminderMonthlyLimit, &c.RemindersSentThisCycle, &c.CurrentCycleStartDate,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning dispatch candidate: %w", err)
		}
		candidates = append(candidates, cand)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dispatch candidates: %w", err)
	}
	return candidates, nil
}

// SetReminderOutcome records the engine's single pass. The PENDING guard
// makes the write idempotent: a visit already attempted is never rewritten,
// even if two runs overlap.
func (r *PostgresVisitRepository) SetReminderOutcome(ctx context.Context, visitID int64, outcome visit.ReminderOutcome) error {
	query := `UPDATE visits SET reminder_outcome = $1, updated_at = NOW()
               WHERE id = $2 AND reminder_outcome = $3`

	res, err := r.db.ExecContext(ctx, query, outcome, visitID, visit.OutcomePending)
	if err != nil {
		return fmt.Errorf("error setting reminder outcome for visit %d: %w", visitID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking reminder outcome update for visit %d: %w", visitID, err)
	}
	if affected == 0 {
		return ErrVisitNotFound
	}
	return nil
}

func collectVisits(rows *sql.Rows) ([]*visit.Visit, error) {
	visits := make([]*visit.Visit, 0)
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning visit: %w", err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visits: %w", err)
	}
	return visits, nil
}
