package database

import (
	"context"
	"database/sql"
	"fmt"

	"vet_reminder_service/internal/domain/pet"

	_ "github.com/lib/pq" // PostgreSQL driver
)

var ErrPetNotFound = fmt.Errorf("pet not found")

type PostgresPetRepository struct {
	db *sql.DB
}

func NewPostgresPetRepository(db *sql.DB) *PostgresPetRepository {
	return &PostgresPetRepository{db: db}
}

func (r *PostgresPetRepository) Create(ctx context.Context, p *pet.Pet) error {
	query := `INSERT INTO pets (owner_id, name, species)
               VALUES ($1, $2, $3)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, p.OwnerID, p.Name, p.Species).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating pet: %w", err)
	}
	return nil
}

func (r *PostgresPetRepository) GetByID(ctx context.Context, id int64) (*pet.Pet, error) {
	query := `SELECT id, owner_id, name, species, created_at, updated_at FROM pets WHERE id = $1`
	p := &pet.Pet{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPetNotFound
		}
		return nil, fmt.Errorf("error getting pet by ID: %w", err)
	}
	return p, nil
}

func (r *PostgresPetRepository) Update(ctx context.Context, p *pet.Pet) error {
	query := `UPDATE pets SET name = $1, species = $2, updated_at = NOW() WHERE id = $3 RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, p.Name, p.Species, p.ID).Scan(&p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrPetNotFound
		}
		return fmt.Errorf("error updating pet: %w", err)
	}
	return nil
}

func (r *PostgresPetRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*pet.Pet, error) {
	query := `SELECT id, owner_id, name, species, created_at, updated_at FROM pets WHERE owner_id = $1 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing pets by owner: %w", err)
	}
	defer rows.Close()

	pets := make([]*pet.Pet, 0)
	for rows.Next() {
		p := &pet.Pet{}
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning pet: %w", err)
		}
		pets = append(pets, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pets: %w", err)
	}
	return pets, nil
}
