package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/models"
	appErrors "github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/errors"
)

type statusCandidateRepository interface {
	FindByID(ctx context.Context, id string) (*models.CandidateDetail, error)
	SetAvailable(ctx context.Context, id string) error
	SetInternship(ctx context.Context, id string, details models.InternshipDetails) error
	SetEmployment(ctx context.Context, id string, details models.EmploymentDetails) error
}

// StatusTransition is the tagged request for a lifecycle change. Only the
// sub-record matching Target is consulted; the others are ignored.
type StatusTransition struct {
	Target     models.Status
	Internship *models.InternshipDetails
	Employment *models.EmploymentDetails
}

// StatusService moves candidates between the three lifecycle states. Each
// target status routes to its own repository operation; a per-candidate
// in-flight guard rejects overlapping transitions for the same id.
type StatusService struct {
	repo   statusCandidateRepository
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewStatusService constructs the status lifecycle service.
func NewStatusService(repo statusCandidateRepository, logger *zap.Logger) *StatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusService{
		repo:     repo,
		logger:   logger,
		now:      time.Now,
		inflight: make(map[string]struct{}),
	}
}

// Transition applies the requested status change and returns the updated
// record as persisted, never a locally merged copy.
func (s *StatusService) Transition(ctx context.Context, candidateID string, transition StatusTransition) (*models.CandidateDetail, error) {
	if candidateID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "candidate id is required")
	}
	if !transition.Target.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", transition.Target))
	}

	if !s.acquire(candidateID) {
		return nil, appErrors.ErrTransitionPending
	}
	defer s.release(candidateID)

	if _, err := s.repo.FindByID(ctx, candidateID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "candidate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidate")
	}

	var err error
	switch transition.Target {
	case models.StatusAvailable:
		err = s.repo.SetAvailable(ctx, candidateID)
	case models.StatusInternship:
		details := models.InternshipDetails{}
		if transition.Internship != nil {
			details = *transition.Internship
		}
		if details.StartDate != nil && details.EndDate != nil && details.EndDate.Before(*details.StartDate) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "internship end date precedes start date")
		}
		err = s.repo.SetInternship(ctx, candidateID, details)
	case models.StatusEmployed:
		details := models.EmploymentDetails{}
		if transition.Employment != nil {
			details = *transition.Employment
		}
		err = s.repo.SetEmployment(ctx, candidateID, details)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "candidate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply status transition")
	}

	updated, err := s.repo.FindByID(ctx, candidateID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload candidate")
	}
	AttachRemainingTime(updated, s.now())

	s.logger.Info("candidate status updated",
		zap.String("candidate_id", candidateID),
		zap.String("status", string(transition.Target)))

	return updated, nil
}

// InProgress reports whether a transition for the candidate is pending.
func (s *StatusService) InProgress(candidateID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inflight[candidateID]
	return ok
}

func (s *StatusService) acquire(candidateID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, pending := s.inflight[candidateID]; pending {
		return false
	}
	s.inflight[candidateID] = struct{}{}
	return true
}

func (s *StatusService) release(candidateID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, candidateID)
}

// RemainingInternshipTime derives a display label from the internship end
// date. It is a pure function of the two timestamps and must be recomputed
// per evaluation since "now" advances.
func RemainingInternshipTime(endDate *time.Time, now time.Time) (string, bool) {
	if endDate == nil {
		return "", false
	}
	diffDays := int(math.Ceil(endDate.Sub(now).Hours() / 24))
	switch {
	case diffDays < 0:
		return "Terminé", true
	case diffDays == 0:
		return "Dernier jour", true
	case diffDays == 1:
		return "1 jour restant", true
	default:
		return fmt.Sprintf("%d jours restants", diffDays), true
	}
}

// AttachRemainingTime sets the display label on internship candidates.
func AttachRemainingTime(detail *models.CandidateDetail, now time.Time) {
	if detail == nil || detail.StatusTracking.CurrentStatus != models.StatusInternship {
		return
	}
	if detail.StatusTracking.Internship == nil {
		return
	}
	if label, ok := RemainingInternshipTime(detail.StatusTracking.Internship.EndDate, now); ok {
		detail.StatusTracking.RemainingTime = label
	}
}
