package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/models"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/service"
	appErrors "github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/errors"
)

type fakeCandidateAPI struct {
	detail *models.CandidateDetail
}

func (f *fakeCandidateAPI) Create(_ context.Context, _ service.CreateCandidateRequest) (*models.CandidateDetail, error) {
	return f.detail, nil
}

func (f *fakeCandidateAPI) Update(_ context.Context, _ string, _ service.UpdateCandidateRequest) (*models.CandidateDetail, error) {
	return f.detail, nil
}

func (f *fakeCandidateAPI) List(_ context.Context, _ models.CandidateListQuery) ([]models.CandidateDetail, *models.Pagination, error) {
	return nil, &models.Pagination{Page: 1, PageSize: 5}, nil
}

func (f *fakeCandidateAPI) Filter(_ context.Context, _ models.CandidateFilter) ([]models.CandidateDetail, error) {
	return nil, nil
}

func (f *fakeCandidateAPI) Get(_ context.Context, _ string) (*models.CandidateDetail, error) {
	if f.detail == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "candidate not found")
	}
	return f.detail, nil
}

func (f *fakeCandidateAPI) Delete(_ context.Context, _ string) error { return nil }

func (f *fakeCandidateAPI) Document(_ context.Context, _, _ string) (*service.DocumentFile, error) {
	return &service.DocumentFile{Name: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}, nil
}

type fakeStatusAPI struct {
	lastID         string
	lastTransition service.StatusTransition
	err            error
	detail         *models.CandidateDetail
}

func (f *fakeStatusAPI) Transition(_ context.Context, id string, t service.StatusTransition) (*models.CandidateDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastID = id
	f.lastTransition = t
	return f.detail, nil
}

type fakeBundleAPI struct{}

func (f *fakeBundleAPI) CandidateBundle(_ context.Context, _ string) (*service.BundleResult, error) {
	return &service.BundleResult{Filename: "dossier.zip", Data: []byte("PK")}, nil
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(_ context.Context, _ ...string) {}

func newCandidateRouter(status *fakeStatusAPI) (*gin.Engine, *fakeCandidateAPI) {
	gin.SetMode(gin.TestMode)
	detail := &models.CandidateDetail{Candidate: models.Candidate{ID: "cand-1", FullName: "Amina Berrada"}}
	detail.HydrateTracking()

	candidates := &fakeCandidateAPI{detail: detail}
	status.detail = detail

	h := NewCandidateHandler(candidates, status, &fakeBundleAPI{}, noopInvalidator{})
	router := gin.New()
	RegisterRoutes(router, "/api", Handlers{
		Auth:       NewAuthHandler(nil),
		Candidates: h,
		Centers:    NewCenterHandler(nil),
		Filieres:   NewFiliereHandler(nil),
		Stats:      NewStatsHandler(nil, nil),
	}, func(c *gin.Context) { c.Next() })
	return router, candidates
}

func TestStageEndpointRoutesToInternshipTransition(t *testing.T) {
	status := &fakeStatusAPI{}
	router, _ := newCandidateRouter(status)

	body := `{"stageCompany":"Atlas Cloud","stageTitle":"Backend intern","stageStartDate":"2026-03-01","stageEndDate":"2026-06-30","stageType":"PFE"}`
	req := httptest.NewRequest(http.MethodPut, "/api/candidat/cand-1/stage", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cand-1", status.lastID)
	assert.Equal(t, models.StatusInternship, status.lastTransition.Target)
	require.NotNil(t, status.lastTransition.Internship)
	assert.Nil(t, status.lastTransition.Employment)
	assert.Equal(t, "Atlas Cloud", status.lastTransition.Internship.Company)
	require.NotNil(t, status.lastTransition.Internship.StartDate)
	assert.Equal(t, "2026-03-01", status.lastTransition.Internship.StartDate.Format("2006-01-02"))

	var envelope struct {
		Data struct {
			Updated *models.CandidateDetail `json:"updated"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data.Updated)
	assert.Equal(t, "cand-1", envelope.Data.Updated.ID)
}

func TestJobEndpointRoutesToEmploymentTransition(t *testing.T) {
	status := &fakeStatusAPI{}
	router, _ := newCandidateRouter(status)

	body := `{"jobCompany":"Atlas Cloud","jobTitle":"Backend engineer","jobContractType":"CDI","jobStartDate":"2026-07-01"}`
	req := httptest.NewRequest(http.MethodPut, "/api/candidat/cand-1/job", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusEmployed, status.lastTransition.Target)
	require.NotNil(t, status.lastTransition.Employment)
	assert.Nil(t, status.lastTransition.Internship)
	assert.Equal(t, "CDI", status.lastTransition.Employment.ContractType)
}

func TestDisponibleEndpointRoutesToAvailableTransition(t *testing.T) {
	status := &fakeStatusAPI{}
	router, _ := newCandidateRouter(status)

	req := httptest.NewRequest(http.MethodPut, "/api/candidat/cand-1/disponible", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusAvailable, status.lastTransition.Target)
	assert.Nil(t, status.lastTransition.Internship)
	assert.Nil(t, status.lastTransition.Employment)
}

func TestPendingTransitionReturnsConflict(t *testing.T) {
	status := &fakeStatusAPI{err: appErrors.ErrTransitionPending}
	router, _ := newCandidateRouter(status)

	req := httptest.NewRequest(http.MethodPut, "/api/candidat/cand-1/disponible", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	var envelope struct {
		Error *appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrTransitionPending.Code, envelope.Error.Code)
}

func TestStageEndpointRejectsBadDate(t *testing.T) {
	status := &fakeStatusAPI{}
	router, _ := newCandidateRouter(status)

	body := `{"stageStartDate":"not-a-date"}`
	req := httptest.NewRequest(http.MethodPut, "/api/candidat/cand-1/stage", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, status.lastID, "transition must not run on invalid payload")
}

func TestCreateCandidateRequiresCVUpload(t *testing.T) {
	status := &fakeStatusAPI{}
	router, _ := newCandidateRouter(status)

	form := &bytes.Buffer{}
	req := httptest.NewRequest(http.MethodPost, "/api/candidat/add", form)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xxx")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
