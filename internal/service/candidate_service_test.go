package service

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/models"
	appErrors "github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/errors"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/upload"
)

type fakeCandidateRepo struct {
	byID        map[string]*models.CandidateDetail
	created     []*models.Candidate
	updated     []*models.Candidate
	deleted     []string
	listQuery   models.CandidateListQuery
	listResult  []models.CandidateDetail
	listTotal   int
	filterCalls int
	filterArg   models.CandidateFilter
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{byID: map[string]*models.CandidateDetail{}}
}

func (f *fakeCandidateRepo) List(_ context.Context, query models.CandidateListQuery) ([]models.CandidateDetail, int, error) {
	f.listQuery = query
	return f.listResult, f.listTotal, nil
}

func (f *fakeCandidateRepo) Filter(_ context.Context, filter models.CandidateFilter) ([]models.CandidateDetail, error) {
	f.filterCalls++
	f.filterArg = filter
	return nil, nil
}

func (f *fakeCandidateRepo) FindByID(_ context.Context, id string) (*models.CandidateDetail, error) {
	detail, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *detail
	copied.HydrateTracking()
	return &copied, nil
}

func (f *fakeCandidateRepo) Create(_ context.Context, candidate *models.Candidate) error {
	f.created = append(f.created, candidate)
	f.byID[candidate.ID] = &models.CandidateDetail{Candidate: *candidate}
	return nil
}

func (f *fakeCandidateRepo) Update(_ context.Context, candidate *models.Candidate) error {
	f.updated = append(f.updated, candidate)
	f.byID[candidate.ID] = &models.CandidateDetail{Candidate: *candidate}
	return nil
}

func (f *fakeCandidateRepo) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.byID, id)
	return nil
}

type fakeFiliereCounter struct {
	counts map[string]int
	calls  int
}

func (f *fakeFiliereCounter) CountByCenter(_ context.Context, centerID string) (int, error) {
	f.calls++
	return f.counts[centerID], nil
}

type memStorage struct {
	files map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}}
}

func (m *memStorage) SaveStream(filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.files[filename] = data
	return filename, nil
}

func (m *memStorage) Read(filename string) ([]byte, error) {
	data, ok := m.files[filename]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return data, nil
}

func (m *memStorage) Delete(filename string) error {
	delete(m.files, filename)
	return nil
}

func pdfDocument(content string) *upload.Document {
	data := []byte("%PDF-1.4\n" + content)
	return &upload.Document{
		Filename: "dossier.pdf",
		Size:     int64(len(data)),
		MimeType: "application/pdf",
		Content:  bytes.NewReader(data),
	}
}

func newCandidateFixture() (*CandidateService, *fakeCandidateRepo, *fakeFiliereCounter, *memStorage) {
	repo := newFakeCandidateRepo()
	filieres := &fakeFiliereCounter{counts: map[string]int{}}
	store := newMemStorage()
	svc := NewCandidateService(repo, filieres, store, upload.NewValidator(upload.Constraints{}), zap.NewNop())
	return svc, repo, filieres, store
}

func TestCreateCandidateStoresBothDocuments(t *testing.T) {
	svc, repo, _, store := newCandidateFixture()

	detail, err := svc.Create(context.Background(), CreateCandidateRequest{
		FullName: "Yassine El Fassi",
		LinkedIn: "https://linkedin.com/in/yassine",
		CV:       pdfDocument("cv"),
		Cover:    pdfDocument("cover"),
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)

	created := repo.created[0]
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "dossier.pdf", created.CVName)
	assert.Contains(t, store.files, created.CVPath)
	assert.Contains(t, store.files, created.CoverPath)
	assert.Equal(t, models.StatusAvailable, detail.StatusTracking.CurrentStatus)
	assert.Nil(t, detail.StatusTracking.Internship)
	assert.Nil(t, detail.StatusTracking.Employment)
}

func TestCreateCandidateRequiresDocuments(t *testing.T) {
	svc, repo, _, _ := newCandidateFixture()

	_, err := svc.Create(context.Background(), CreateCandidateRequest{
		FullName: "Sara Lahlou",
		Cover:    pdfDocument("cover"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestCreateCandidateRejectsNonPDF(t *testing.T) {
	svc, repo, _, _ := newCandidateFixture()

	doc := pdfDocument("cv")
	doc.MimeType = "image/png"

	_, err := svc.Create(context.Background(), CreateCandidateRequest{
		FullName: "Sara Lahlou",
		CV:       doc,
		Cover:    pdfDocument("cover"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestListDefaultsPageSize(t *testing.T) {
	svc, repo, _, _ := newCandidateFixture()
	repo.listTotal = 12

	_, pagination, err := svc.List(context.Background(), models.CandidateListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listQuery.Page)
	assert.Equal(t, 5, repo.listQuery.PageSize)
	assert.Equal(t, 12, pagination.TotalCount)
}

func TestFilterRejectsCenterWithoutFilieres(t *testing.T) {
	svc, repo, filieres, _ := newCandidateFixture()
	filieres.counts["center-empty"] = 0

	_, err := svc.Filter(context.Background(), models.CandidateFilter{CenterID: "center-empty"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.filterCalls, "candidate query must not run for an empty center")
}

func TestFilterPassesCombinedCriteria(t *testing.T) {
	svc, repo, filieres, _ := newCandidateFixture()
	filieres.counts["center-1"] = 3

	_, err := svc.Filter(context.Background(), models.CandidateFilter{
		CenterID:  "center-1",
		FiliereID: "filiere-9",
		Status:    models.StatusInternship,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.filterCalls)
	assert.Equal(t, "center-1", repo.filterArg.CenterID)
	assert.Equal(t, "filiere-9", repo.filterArg.FiliereID)
	assert.Equal(t, models.StatusInternship, repo.filterArg.Status)
}

func TestFilterRejectsUnknownStatus(t *testing.T) {
	svc, repo, _, _ := newCandidateFixture()

	_, err := svc.Filter(context.Background(), models.CandidateFilter{Status: "Freelance"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.filterCalls)
}

func TestDocumentDownloadAndUnknownKind(t *testing.T) {
	svc, repo, _, store := newCandidateFixture()
	store.files["candidates/cand-1/cv.pdf"] = []byte("%PDF-1.4 cv")
	repo.byID["cand-1"] = &models.CandidateDetail{Candidate: models.Candidate{
		ID:       "cand-1",
		FullName: "Imane Zouiten",
		CVPath:   "candidates/cand-1/cv.pdf",
		CVName:   "imane-cv.pdf",
	}}

	file, err := svc.Document(context.Background(), "cand-1", DocumentKindCV)
	require.NoError(t, err)
	assert.Equal(t, "imane-cv.pdf", file.Name)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.NotEmpty(t, file.Data)

	_, err = svc.Document(context.Background(), "cand-1", "diploma")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDeleteCandidateRemovesDocuments(t *testing.T) {
	svc, repo, _, store := newCandidateFixture()
	store.files["candidates/cand-1/cv.pdf"] = []byte("cv")
	store.files["candidates/cand-1/cover.pdf"] = []byte("cover")
	repo.byID["cand-1"] = &models.CandidateDetail{Candidate: models.Candidate{
		ID:        "cand-1",
		CVPath:    "candidates/cand-1/cv.pdf",
		CoverPath: "candidates/cand-1/cover.pdf",
	}}

	require.NoError(t, svc.Delete(context.Background(), "cand-1"))
	assert.Equal(t, []string{"cand-1"}, repo.deleted)
	assert.Empty(t, store.files)
}

func TestDeleteUnknownCandidate(t *testing.T) {
	svc, _, _, _ := newCandidateFixture()

	err := svc.Delete(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
