package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func candidateRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "full_name", "linkedin", "portfolio", "center_id", "filiere_id",
		"cv_path", "cv_name", "cover_path", "cover_name",
		"current_status",
		"internship_company", "internship_title", "internship_start_date", "internship_end_date", "internship_type",
		"employment_company", "employment_title", "employment_contract_type", "employment_start_date",
		"created_at", "updated_at", "center_name", "filiere_name",
	})
}

func addCandidateRow(rows *sqlmock.Rows, id, name string, status models.Status) *sqlmock.Rows {
	now := time.Now().UTC()
	return rows.AddRow(
		id, name, "", "", nil, nil,
		"", "", "", "",
		string(status),
		"", "", nil, nil, "",
		"", "", "", nil,
		now, now, nil, nil,
	)
}

func TestFilterCombinesCriteriaWithAND(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCandidateRepository(db)

	mock.ExpectQuery(`(?s)SELECT .+ FROM candidates c.+WHERE 1=1 AND c\.center_id = \$1 AND c\.current_status = \$2 ORDER BY c\.created_at ASC`).
		WithArgs("center-1", models.StatusInternship).
		WillReturnRows(addCandidateRow(candidateRows(), "cand-1", "Amina Berrada", models.StatusInternship))

	candidates, err := repo.Filter(context.Background(), models.CandidateFilter{
		CenterID: "center-1",
		Status:   models.StatusInternship,
	})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, models.StatusInternship, candidates[0].StatusTracking.CurrentStatus)
	assert.NotNil(t, candidates[0].StatusTracking.Internship)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFilterWithoutCriteriaReturnsEverything(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCandidateRepository(db)

	rows := candidateRows()
	addCandidateRow(rows, "cand-1", "Amina Berrada", models.StatusAvailable)
	addCandidateRow(rows, "cand-2", "Yassine El Fassi", models.StatusEmployed)

	mock.ExpectQuery(`(?s)SELECT .+ FROM candidates c.+WHERE 1=1 ORDER BY c\.created_at ASC`).
		WillReturnRows(rows)

	candidates, err := repo.Filter(context.Background(), models.CandidateFilter{})
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFilterFiliereOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCandidateRepository(db)

	mock.ExpectQuery(`WHERE 1=1 AND c\.filiere_id = \$1 ORDER BY`).
		WithArgs("filiere-9").
		WillReturnRows(candidateRows())

	candidates, err := repo.Filter(context.Background(), models.CandidateFilter{FiliereID: "filiere-9"})
	require.NoError(t, err)
	assert.Empty(t, candidates)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListDefaultsToFivePerPage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCandidateRepository(db)

	mock.ExpectQuery(`ORDER BY c\.created_at ASC LIMIT 5 OFFSET 0`).
		WillReturnRows(addCandidateRow(candidateRows(), "cand-1", "Amina Berrada", models.StatusAvailable))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(c.id)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	candidates, total, err := repo.List(context.Background(), models.CandidateListQuery{})
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
	assert.Equal(t, 12, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAppliesSearch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCandidateRepository(db)

	mock.ExpectQuery(`LOWER\(c\.full_name\) LIKE \$1`).
		WithArgs("%amina%").
		WillReturnRows(candidateRows())
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs("%amina%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.List(context.Background(), models.CandidateListQuery{Search: "Amina"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetInternshipPurgesEmploymentColumns(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCandidateRepository(db)

	mock.ExpectExec(`(?s)UPDATE candidates SET current_status = \$2,\s+internship_company = \$3.+employment_company = ''`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetInternship(context.Background(), "cand-1", models.InternshipDetails{
		Company: "Atlas Cloud",
		Title:   "Backend intern",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetAvailableUnknownCandidate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCandidateRepository(db)

	mock.ExpectExec(`UPDATE candidates SET current_status = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetAvailable(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCandidate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCandidateRepository(db)

	mock.ExpectExec(`DELETE FROM candidates WHERE id = \$1`).
		WithArgs("cand-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "cand-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
