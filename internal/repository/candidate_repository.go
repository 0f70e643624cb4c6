package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/models"
)

const candidateColumns = `c.id, c.full_name, c.linkedin, c.portfolio, c.center_id, c.filiere_id,
        c.cv_path, c.cv_name, c.cover_path, c.cover_name,
        c.current_status,
        c.internship_company, c.internship_title, c.internship_start_date, c.internship_end_date, c.internship_type,
        c.employment_company, c.employment_title, c.employment_contract_type, c.employment_start_date,
        c.created_at, c.updated_at,
        ce.name AS center_name, f.name AS filiere_name`

const candidateJoins = `FROM candidates c
        LEFT JOIN centers ce ON ce.id = c.center_id
        LEFT JOIN filieres f ON f.id = c.filiere_id`

// CandidateRepository manages persistence for candidate records.
type CandidateRepository struct {
	db *sqlx.DB
}

// NewCandidateRepository constructs a CandidateRepository.
func NewCandidateRepository(db *sqlx.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

// List returns a page of candidates ordered by submission time.
func (r *CandidateRepository) List(ctx context.Context, query models.CandidateListQuery) ([]models.CandidateDetail, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if query.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(c.full_name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(query.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")

	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.PageSize
	if size <= 0 || size > 100 {
		size = 5
	}
	offset := (page - 1) * size

	sqlQuery := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY c.created_at ASC LIMIT %d OFFSET %d",
		candidateColumns, candidateJoins, where, size, offset)

	var candidates []models.CandidateDetail
	if err := r.db.SelectContext(ctx, &candidates, sqlQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list candidates: %w", err)
	}
	hydrateAll(candidates)

	countQuery := fmt.Sprintf("SELECT COUNT(c.id) %s WHERE %s", candidateJoins, where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count candidates: %w", err)
	}
	return candidates, total, nil
}

// Filter returns all candidates matching the supplied criteria. Omitted
// criteria do not constrain the result; supplied ones combine with AND.
func (r *CandidateRepository) Filter(ctx context.Context, filter models.CandidateFilter) ([]models.CandidateDetail, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.CenterID != "" {
		conditions = append(conditions, fmt.Sprintf("c.center_id = $%d", len(args)+1))
		args = append(args, filter.CenterID)
	}
	if filter.FiliereID != "" {
		conditions = append(conditions, fmt.Sprintf("c.filiere_id = $%d", len(args)+1))
		args = append(args, filter.FiliereID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("c.current_status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY c.created_at ASC",
		candidateColumns, candidateJoins, strings.Join(conditions, " AND "))

	var candidates []models.CandidateDetail
	if err := r.db.SelectContext(ctx, &candidates, query, args...); err != nil {
		return nil, fmt.Errorf("filter candidates: %w", err)
	}
	hydrateAll(candidates)
	return candidates, nil
}

// FindByID fetches a candidate detail by ID.
func (r *CandidateRepository) FindByID(ctx context.Context, id string) (*models.CandidateDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE c.id = $1", candidateColumns, candidateJoins)
	var detail models.CandidateDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	detail.HydrateTracking()
	return &detail, nil
}

// Create inserts a new candidate record in the Available state.
func (r *CandidateRepository) Create(ctx context.Context, candidate *models.Candidate) error {
	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}
	if candidate.CurrentStatus == "" {
		candidate.CurrentStatus = models.StatusAvailable
	}
	now := time.Now().UTC()
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = now
	}
	candidate.UpdatedAt = now
	const query = `INSERT INTO candidates (id, full_name, linkedin, portfolio, center_id, filiere_id,
        cv_path, cv_name, cover_path, cover_name, current_status, created_at, updated_at)
        VALUES (:id, :full_name, :linkedin, :portfolio, :center_id, :filiere_id,
        :cv_path, :cv_name, :cover_path, :cover_name, :current_status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, candidate); err != nil {
		return fmt.Errorf("create candidate: %w", err)
	}
	return nil
}

// Update modifies the editable attributes of an existing candidate.
// Lifecycle columns are owned by the transition operations.
func (r *CandidateRepository) Update(ctx context.Context, candidate *models.Candidate) error {
	candidate.UpdatedAt = time.Now().UTC()
	const query = `UPDATE candidates SET full_name = :full_name, linkedin = :linkedin, portfolio = :portfolio,
        center_id = :center_id, filiere_id = :filiere_id,
        cv_path = :cv_path, cv_name = :cv_name, cover_path = :cover_path, cover_name = :cover_name,
        updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, candidate); err != nil {
		return fmt.Errorf("update candidate: %w", err)
	}
	return nil
}

// Delete removes a candidate row.
func (r *CandidateRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM candidates WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete candidate: %w", err)
	}
	return nil
}

// SetAvailable moves the candidate back to the Available state, purging
// both variant sub-records.
func (r *CandidateRepository) SetAvailable(ctx context.Context, id string) error {
	const query = `UPDATE candidates SET current_status = $2,
        internship_company = '', internship_title = '', internship_start_date = NULL,
        internship_end_date = NULL, internship_type = '',
        employment_company = '', employment_title = '', employment_contract_type = '',
        employment_start_date = NULL,
        updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, models.StatusAvailable, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set candidate available: %w", err)
	}
	return requireRow(res)
}

// SetInternship moves the candidate into the Internship state with the
// given details, purging any employment sub-record.
func (r *CandidateRepository) SetInternship(ctx context.Context, id string, details models.InternshipDetails) error {
	const query = `UPDATE candidates SET current_status = $2,
        internship_company = $3, internship_title = $4, internship_start_date = $5,
        internship_end_date = $6, internship_type = $7,
        employment_company = '', employment_title = '', employment_contract_type = '',
        employment_start_date = NULL,
        updated_at = $8 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, models.StatusInternship,
		details.Company, details.Title, details.StartDate, details.EndDate, details.Type,
		time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set candidate internship: %w", err)
	}
	return requireRow(res)
}

// SetEmployment moves the candidate into the Employed state with the given
// details, purging any internship sub-record.
func (r *CandidateRepository) SetEmployment(ctx context.Context, id string, details models.EmploymentDetails) error {
	const query = `UPDATE candidates SET current_status = $2,
        employment_company = $3, employment_title = $4, employment_contract_type = $5,
        employment_start_date = $6,
        internship_company = '', internship_title = '', internship_start_date = NULL,
        internship_end_date = NULL, internship_type = '',
        updated_at = $7 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, models.StatusEmployed,
		details.Company, details.Title, details.ContractType, details.StartDate,
		time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set candidate employment: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func hydrateAll(candidates []models.CandidateDetail) {
	for i := range candidates {
		candidates[i].HydrateTracking()
	}
}
