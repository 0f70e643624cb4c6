package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/models"
)

// FiliereRepository manages persistence for training programs.
type FiliereRepository struct {
	db *sqlx.DB
}

// NewFiliereRepository constructs a FiliereRepository.
func NewFiliereRepository(db *sqlx.DB) *FiliereRepository {
	return &FiliereRepository{db: db}
}

// List returns all filieres ordered by name.
func (r *FiliereRepository) List(ctx context.Context) ([]models.Filiere, error) {
	const query = `SELECT id, name, description, center_id, created_at, updated_at
        FROM filieres ORDER BY name ASC`
	var filieres []models.Filiere
	if err := r.db.SelectContext(ctx, &filieres, query); err != nil {
		return nil, fmt.Errorf("list filieres: %w", err)
	}
	return filieres, nil
}

// ListByCenter returns the filieres scoped to one center.
func (r *FiliereRepository) ListByCenter(ctx context.Context, centerID string) ([]models.Filiere, error) {
	const query = `SELECT id, name, description, center_id, created_at, updated_at
        FROM filieres WHERE center_id = $1 ORDER BY name ASC`
	var filieres []models.Filiere
	if err := r.db.SelectContext(ctx, &filieres, query, centerID); err != nil {
		return nil, fmt.Errorf("list filieres by center: %w", err)
	}
	return filieres, nil
}

// CountByCenter returns the number of filieres scoped to one center.
func (r *FiliereRepository) CountByCenter(ctx context.Context, centerID string) (int, error) {
	const query = `SELECT COUNT(id) FROM filieres WHERE center_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, centerID); err != nil {
		return 0, fmt.Errorf("count filieres by center: %w", err)
	}
	return count, nil
}

// FindByID fetches a filiere by ID.
func (r *FiliereRepository) FindByID(ctx context.Context, id string) (*models.Filiere, error) {
	const query = `SELECT id, name, description, center_id, created_at, updated_at
        FROM filieres WHERE id = $1`
	var filiere models.Filiere
	if err := r.db.GetContext(ctx, &filiere, query, id); err != nil {
		return nil, err
	}
	return &filiere, nil
}

// Create inserts a new filiere record.
func (r *FiliereRepository) Create(ctx context.Context, filiere *models.Filiere) error {
	if filiere.ID == "" {
		filiere.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if filiere.CreatedAt.IsZero() {
		filiere.CreatedAt = now
	}
	filiere.UpdatedAt = now
	const query = `INSERT INTO filieres (id, name, description, center_id, created_at, updated_at)
        VALUES (:id, :name, :description, :center_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, filiere); err != nil {
		return fmt.Errorf("create filiere: %w", err)
	}
	return nil
}

// Update modifies an existing filiere.
func (r *FiliereRepository) Update(ctx context.Context, filiere *models.Filiere) error {
	filiere.UpdatedAt = time.Now().UTC()
	const query = `UPDATE filieres SET name = :name, description = :description,
        center_id = :center_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, filiere); err != nil {
		return fmt.Errorf("update filiere: %w", err)
	}
	return nil
}

// Delete removes a filiere row.
func (r *FiliereRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM filieres WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete filiere: %w", err)
	}
	return nil
}
