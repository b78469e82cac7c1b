package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vet_reminder_service/internal/domain/clinic"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrClinicNotFound = fmt.Errorf("clinic not found")

type PostgresClinicRepository struct {
	db *sql.DB
}

func NewPostgresClinicRepository(db *sql.DB) *PostgresClinicRepository {
	return &PostgresClinicRepository{db: db}
}

const clinicColumns = `id, name, phone, is_active, subscription_end_date, can_send_reminders,
               timezone, reminder_monthly_limit, reminders_sent_this_cycle, current_cycle_start_date,
               created_at, updated_at`

func scanClinic(row interface{ Scan(...any) error }) (*clinic.Clinic, error) {
	c := &clinic.Clinic{}
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.IsActive, &c.SubscriptionEndDate, &c.CanSendReminders,
		&c.Timezone, &c.ReminderMonthlyLimit, &c.RemindersSentThisCycle, &c.CurrentCycleStartDate,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresClinicRepository) Create(ctx context.Context, c *clinic.Clinic) error {
	query := `INSERT INTO clinics (name, phone, is_active, subscription_end_date, can_send_reminders,
               timezone, reminder_monthly_limit, reminders_sent_this_cycle, current_cycle_start_date)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, c.Name, c.Phone, c.IsActive, c.SubscriptionEndDate,
		c.CanSendReminders, c.Timezone, c.ReminderMonthlyLimit, c.RemindersSentThisCycle,
		c.CurrentCycleStartDate).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating clinic: %w", err)
	}
	return nil
}

func (r *PostgresClinicRepository) GetByID(ctx context.Context, id int64) (*clinic.Clinic, error) {
	query := `SELECT ` + clinicColumns + ` FROM clinics WHERE id = $1`
	c, err := scanClinic(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrClinicNotFound
		}
		return nil, fmt.Errorf("error getting clinic by ID: %w", err)
	}
	return c, nil
}

func (r *PostgresClinicRepository) Update(ctx context.Context, c *clinic.Clinic) error {
	query := `UPDATE clinics
               SET name = $1, phone = $2, is_active = $3, subscription_end_date = $4,
                   can_send_reminders = $5, timezone = $6, reminder_monthly_limit = $7,
                   updated_at = NOW()
               WHERE id = $8
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, c.Name, c.Phone, c.IsActive, c.SubscriptionEndDate,
		c.CanSendReminders, c.Timezone, c.ReminderMonthlyLimit, c.ID).Scan(&c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrClinicNotFound
		}
		return fmt.Errorf("error updating clinic: %w", err)
	}
	return nil
}

func (r *PostgresClinicRepository) ListActive(ctx context.Context) ([]*clinic.Clinic, error) {
	query := `SELECT ` + clinicColumns + ` FROM clinics WHERE is_active = TRUE ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing active clinics: %w", err)
	}
	defer rows.Close()

	clinics := make([]*clinic.Clinic, 0)
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning active clinic: %w", err)
		}
		clinics = append(clinics, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active clinics: %w", err)
	}
	return clinics, nil
}

// ListQuotaResetCandidates selects the population scanned by the quota cycle
// job: active, unexpired subscription, a positive monthly limit and a started
// cycle. Clinics with current_cycle_start_date IS NULL have never begun a
// cycle and are excluded.
func (r *PostgresClinicRepository) ListQuotaResetCandidates(ctx context.Context, now time.Time) ([]*clinic.Clinic, error) {
	query := `SELECT ` + clinicColumns + ` FROM clinics
               WHERE is_active = TRUE
                 AND subscription_end_date IS NOT NULL AND subscription_end_date >= $1
                 AND reminder_monthly_limit > 0
                 AND current_cycle_start_date IS NOT NULL
               ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("error listing quota reset candidates: %w", err)
	}
	defer rows.Close()

	clinics := make([]*clinic.Clinic, 0)
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning quota reset candidate: %w", err)
		}
		clinics = append(clinics, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quota reset candidates: %w", err)
	}
	return clinics, nil
}

// ResetQuotaCycle zeroes the cycle counter and snaps the cycle anchor to
// cycleStart in one statement, so the counter reset and the anchor advance
// are never observed separately.
func (r *PostgresClinicRepository) ResetQuotaCycle(ctx context.Context, clinicID int64, cycleStart time.Time) error {
	query := `UPDATE clinics
               SET reminders_sent_this_cycle = 0, current_cycle_start_date = $1, updated_at = NOW()
               WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, cycleStart, clinicID)
	if err != nil {
		return fmt.Errorf("error resetting quota cycle for clinic %d: %w", clinicID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking quota cycle reset for clinic %d: %w", clinicID, err)
	}
	if affected == 0 {
		return ErrClinicNotFound
	}
	return nil
}

// IncrementRemindersSent performs the guarded atomic increment: the counter
// only advances while still below the monthly limit, in a single conditional
// UPDATE. Read-modify-write in application code would let concurrent sends
// for the same clinic exceed the limit.
func (r *PostgresClinicRepository) IncrementRemindersSent(ctx context.Context, clinicID int64) (bool, error) {
	query := `UPDATE clinics
               SET reminders_sent_this_cycle = reminders_sent_this_cycle + 1, updated_at = NOW()
               WHERE id = $1
                 AND reminder_monthly_limit > 0
                 AND reminders_sent_this_cycle < reminder_monthly_limit`

	res, err := r.db.ExecContext(ctx, query, clinicID)
	if err != nil {
		return false, fmt.Errorf("error incrementing reminders sent for clinic %d: %w", clinicID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking reminder increment for clinic %d: %w", clinicID, err)
	}
	return affected == 1, nil
}
