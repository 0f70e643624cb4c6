package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/models"
)

// StatsRepository computes candidate aggregates for the dashboard.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs a StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

type centerCountsRow struct {
	CenterID   string `db:"center_id"`
	CenterName string `db:"center_name"`
	Available  int    `db:"available"`
	Internship int    `db:"internship"`
	Employed   int    `db:"employed"`
}

// CountsByCenter returns status buckets for a single center.
func (r *StatsRepository) CountsByCenter(ctx context.Context, centerID string) (*models.CenterStatistics, error) {
	const query = `SELECT ce.id AS center_id, ce.name AS center_name,
        COUNT(c.id) FILTER (WHERE c.current_status = $2) AS available,
        COUNT(c.id) FILTER (WHERE c.current_status = $3) AS internship,
        COUNT(c.id) FILTER (WHERE c.current_status = $4) AS employed
        FROM centers ce
        LEFT JOIN candidates c ON c.center_id = ce.id
        WHERE ce.id = $1
        GROUP BY ce.id, ce.name`
	var row centerCountsRow
	if err := r.db.GetContext(ctx, &row, query, centerID,
		models.StatusAvailable, models.StatusInternship, models.StatusEmployed); err != nil {
		return nil, err
	}
	return &models.CenterStatistics{
		CenterID:   row.CenterID,
		CenterName: row.CenterName,
		Counts: models.StatusCounts{
			Available:  row.Available,
			Internship: row.Internship,
			Employed:   row.Employed,
		},
	}, nil
}

// CountsAllCenters returns status buckets for every center, ordered by
// total candidate volume descending.
func (r *StatsRepository) CountsAllCenters(ctx context.Context) ([]models.CenterStatistics, error) {
	const query = `SELECT ce.id AS center_id, ce.name AS center_name,
        COUNT(c.id) FILTER (WHERE c.current_status = $1) AS available,
        COUNT(c.id) FILTER (WHERE c.current_status = $2) AS internship,
        COUNT(c.id) FILTER (WHERE c.current_status = $3) AS employed
        FROM centers ce
        LEFT JOIN candidates c ON c.center_id = ce.id
        GROUP BY ce.id, ce.name
        ORDER BY COUNT(c.id) DESC, ce.name ASC`
	var rows []centerCountsRow
	if err := r.db.SelectContext(ctx, &rows, query,
		models.StatusAvailable, models.StatusInternship, models.StatusEmployed); err != nil {
		return nil, fmt.Errorf("count all centers: %w", err)
	}
	stats := make([]models.CenterStatistics, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, models.CenterStatistics{
			CenterID:   row.CenterID,
			CenterName: row.CenterName,
			Counts: models.StatusCounts{
				Available:  row.Available,
				Internship: row.Internship,
				Employed:   row.Employed,
			},
		})
	}
	return stats, nil
}
