package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/models"
)

// CenterRepository manages persistence for training centers.
type CenterRepository struct {
	db *sqlx.DB
}

// NewCenterRepository constructs a CenterRepository.
func NewCenterRepository(db *sqlx.DB) *CenterRepository {
	return &CenterRepository{db: db}
}

// List returns all centers ordered by name.
func (r *CenterRepository) List(ctx context.Context) ([]models.Center, error) {
	const query = `SELECT id, name, description, address, phone, created_at, updated_at
        FROM centers ORDER BY name ASC`
	var centers []models.Center
	if err := r.db.SelectContext(ctx, &centers, query); err != nil {
		return nil, fmt.Errorf("list centers: %w", err)
	}
	return centers, nil
}

// FindByID fetches a center by ID.
func (r *CenterRepository) FindByID(ctx context.Context, id string) (*models.Center, error) {
	const query = `SELECT id, name, description, address, phone, created_at, updated_at
        FROM centers WHERE id = $1`
	var center models.Center
	if err := r.db.GetContext(ctx, &center, query, id); err != nil {
		return nil, err
	}
	return &center, nil
}

// Create inserts a new center record.
func (r *CenterRepository) Create(ctx context.Context, center *models.Center) error {
	if center.ID == "" {
		center.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if center.CreatedAt.IsZero() {
		center.CreatedAt = now
	}
	center.UpdatedAt = now
	const query = `INSERT INTO centers (id, name, description, address, phone, created_at, updated_at)
        VALUES (:id, :name, :description, :address, :phone, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, center); err != nil {
		return fmt.Errorf("create center: %w", err)
	}
	return nil
}

// Update modifies an existing center.
func (r *CenterRepository) Update(ctx context.Context, center *models.Center) error {
	center.UpdatedAt = time.Now().UTC()
	const query = `UPDATE centers SET name = :name, description = :description, address = :address,
        phone = :phone, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, center); err != nil {
		return fmt.Errorf("update center: %w", err)
	}
	return nil
}

// Delete removes a center row.
func (r *CenterRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM centers WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete center: %w", err)
	}
	return nil
}
