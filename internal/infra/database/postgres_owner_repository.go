package database

import (
	"context"
	"database/sql"
	"fmt"

	"vet_reminder_service/internal/domain/owner"

	_ "github.com/lib/pq" // PostgreSQL driver
)

var ErrOwnerNotFound = fmt.Errorf("owner not found")

type PostgresOwnerRepository struct {
	db *sql.DB
}

func NewPostgresOwnerRepository(db *sql.DB) *PostgresOwnerRepository {
	return &PostgresOwnerRepository{db: db}
}

func (r *PostgresOwnerRepository) Create(ctx context.Context, o *owner.Owner) error {
	query := `INSERT INTO owners (clinic_id, first_name, last_name, phone, allow_automated_reminders)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, o.ClinicID, o.FirstName, o.LastName, o.Phone,
		o.AllowAutomatedReminders).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating owner: %w", err)
	}
	return nil
}

func (r *PostgresOwnerRepository) GetByID(ctx context.Context, id int64) (*owner.Owner, error) {
	query := `SELECT id, clinic_id, first_name, last_name, phone, allow_automated_reminders, created_at, updated_at
               FROM owners WHERE id = $1`
	o := &owner.Owner{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.ClinicID, &o.FirstName, &o.LastName,
		&o.Phone, &o.AllowAutomatedReminders, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("error getting owner by ID: %w", err)
	}
	return o, nil
}

func (r *PostgresOwnerRepository) Update(ctx context.Context, o *owner.Owner) error {
	query := `UPDATE owners
               SET first_name = $1, last_name = $2, phone = $3, allow_automated_reminders = $4, updated_at = NOW()
               WHERE id = $5
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, o.FirstName, o.LastName, o.Phone,
		o.AllowAutomatedReminders, o.ID).Scan(&o.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrOwnerNotFound
		}
		return fmt.Errorf("error updating owner: %w", err)
	}
	return nil
}

func (r *PostgresOwnerRepository) ListByClinic(ctx context.Context, clinicID int64) ([]*owner.Owner, error) {
	query := `SELECT id, clinic_id, first_name, last_name, phone, allow_automated_reminders, created_at, updated_at
               FROM owners WHERE clinic_id = $1 ORDER BY first_name, last_name`

	rows, err := r.db.QueryContext(ctx, query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("error listing owners by clinic: %w", err)
	}
	defer rows.Close()

	owners := make([]*owner.Owner, 0)
	for rows.Next() {
		o := &owner.Owner{}
		if err := rows.Scan(&o.ID, &o.ClinicID, &o.FirstName, &o.LastName, &o.Phone,
			&o.AllowAutomatedReminders, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning owner: %w", err)
		}
		owners = append(owners, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating owners: %w", err)
	}
	return owners, nil
}
