package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/models"
	appErrors "github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/errors"
)

type fakeStatusRepo struct {
	mu         sync.Mutex
	candidate  *models.CandidateDetail
	findErr    error
	setErr     error
	availCalls int
	stageCalls int
	jobCalls   int
	lastStage  models.InternshipDetails
	lastJob    models.EmploymentDetails
	block      chan struct{}
}

func (f *fakeStatusRepo) FindByID(_ context.Context, id string) (*models.CandidateDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	copied := *f.candidate
	copied.HydrateTracking()
	return &copied, nil
}

func (f *fakeStatusRepo) SetAvailable(_ context.Context, id string) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.availCalls++
	f.candidate.CurrentStatus = models.StatusAvailable
	f.candidate.InternshipCompany = ""
	f.candidate.InternshipTitle = ""
	f.candidate.InternshipStartDate = nil
	f.candidate.InternshipEndDate = nil
	f.candidate.InternshipType = ""
	f.candidate.EmploymentCompany = ""
	f.candidate.EmploymentTitle = ""
	f.candidate.EmploymentContractType = ""
	f.candidate.EmploymentStartDate = nil
	return nil
}

func (f *fakeStatusRepo) SetInternship(_ context.Context, id string, details models.InternshipDetails) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.stageCalls++
	f.lastStage = details
	f.candidate.CurrentStatus = models.StatusInternship
	f.candidate.InternshipCompany = details.Company
	f.candidate.InternshipTitle = details.Title
	f.candidate.InternshipStartDate = details.StartDate
	f.candidate.InternshipEndDate = details.EndDate
	f.candidate.InternshipType = details.Type
	f.candidate.EmploymentCompany = ""
	f.candidate.EmploymentTitle = ""
	f.candidate.EmploymentContractType = ""
	f.candidate.EmploymentStartDate = nil
	return nil
}

func (f *fakeStatusRepo) SetEmployment(_ context.Context, id string, details models.EmploymentDetails) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.jobCalls++
	f.lastJob = details
	f.candidate.CurrentStatus = models.StatusEmployed
	f.candidate.EmploymentCompany = details.Company
	f.candidate.EmploymentTitle = details.Title
	f.candidate.EmploymentContractType = details.ContractType
	f.candidate.EmploymentStartDate = details.StartDate
	f.candidate.InternshipCompany = ""
	f.candidate.InternshipTitle = ""
	f.candidate.InternshipStartDate = nil
	f.candidate.InternshipEndDate = nil
	f.candidate.InternshipType = ""
	return nil
}

func newStatusFixture() (*StatusService, *fakeStatusRepo) {
	repo := &fakeStatusRepo{
		candidate: &models.CandidateDetail{
			Candidate: models.Candidate{
				ID:            "cand-1",
				FullName:      "Amina Berrada",
				CurrentStatus: models.StatusAvailable,
			},
		},
	}
	return NewStatusService(repo, zap.NewNop()), repo
}

func TestTransitionDispatchesToMatchingOperation(t *testing.T) {
	svc, repo := newStatusFixture()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	updated, err := svc.Transition(context.Background(), "cand-1", StatusTransition{
		Target: models.StatusInternship,
		Internship: &models.InternshipDetails{
			Company:   "Atlas Cloud",
			Title:     "Backend intern",
			StartDate: &start,
			EndDate:   &end,
			Type:      "PFE",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.stageCalls)
	assert.Zero(t, repo.availCalls)
	assert.Zero(t, repo.jobCalls)
	assert.Equal(t, models.StatusInternship, updated.StatusTracking.CurrentStatus)
	require.NotNil(t, updated.StatusTracking.Internship)
	assert.Nil(t, updated.StatusTracking.Employment)
	assert.Equal(t, "Atlas Cloud", updated.StatusTracking.Internship.Company)

	updated, err = svc.Transition(context.Background(), "cand-1", StatusTransition{
		Target: models.StatusEmployed,
		Employment: &models.EmploymentDetails{
			Company:      "Atlas Cloud",
			Title:        "Backend engineer",
			ContractType: "CDI",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.jobCalls)
	assert.Equal(t, models.StatusEmployed, updated.StatusTracking.CurrentStatus)
	require.NotNil(t, updated.StatusTracking.Employment)
	assert.Nil(t, updated.StatusTracking.Internship, "internship details must be purged")

	updated, err = svc.Transition(context.Background(), "cand-1", StatusTransition{Target: models.StatusAvailable})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.availCalls)
	assert.Equal(t, models.StatusAvailable, updated.StatusTracking.CurrentStatus)
	assert.Nil(t, updated.StatusTracking.Internship)
	assert.Nil(t, updated.StatusTracking.Employment)
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	svc, repo := newStatusFixture()

	_, err := svc.Transition(context.Background(), "cand-1", StatusTransition{Target: "Freelance"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Zero(t, repo.availCalls+repo.stageCalls+repo.jobCalls)
}

func TestTransitionUnknownCandidate(t *testing.T) {
	svc, repo := newStatusFixture()
	repo.findErr = sql.ErrNoRows

	_, err := svc.Transition(context.Background(), "ghost", StatusTransition{Target: models.StatusAvailable})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTransitionRejectsInvertedInternshipDates(t *testing.T) {
	svc, repo := newStatusFixture()

	start := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Transition(context.Background(), "cand-1", StatusTransition{
		Target:     models.StatusInternship,
		Internship: &models.InternshipDetails{StartDate: &start, EndDate: &end},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.stageCalls)
}

func TestTransitionConcurrentSameCandidateRejected(t *testing.T) {
	svc, repo := newStatusFixture()
	repo.block = make(chan struct{})

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Transition(context.Background(), "cand-1", StatusTransition{Target: models.StatusAvailable})
		firstDone <- err
	}()

	require.Eventually(t, func() bool {
		return svc.InProgress("cand-1")
	}, time.Second, 5*time.Millisecond)

	_, err := svc.Transition(context.Background(), "cand-1", StatusTransition{Target: models.StatusEmployed})
	require.Error(t, err)
	assert.True(t, errors.Is(appErrors.FromError(err), appErrors.ErrTransitionPending) ||
		appErrors.FromError(err).Code == appErrors.ErrTransitionPending.Code)

	close(repo.block)
	require.NoError(t, <-firstDone)
	assert.False(t, svc.InProgress("cand-1"))
}

func TestRemainingInternshipTime(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	cases := []struct {
		name  string
		end   *time.Time
		label string
		ok    bool
	}{
		{"finished yesterday", timePtr(now.Add(-day)), "Terminé", true},
		{"ends today", timePtr(now), "Dernier jour", true},
		{"one day left", timePtr(now.Add(day)), "1 jour restant", true},
		{"five days left", timePtr(now.Add(5 * day)), "5 jours restants", true},
		{"no end date", nil, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			label, ok := RemainingInternshipTime(tc.end, now)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.label, label)
		})
	}
}

func TestRemainingInternshipTimeRoundsPartialDaysUp(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	end := now.Add(36 * time.Hour)

	label, ok := RemainingInternshipTime(&end, now)
	require.True(t, ok)
	assert.Equal(t, "2 jours restants", label)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
