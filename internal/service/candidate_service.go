package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/models"
	appErrors "github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/errors"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/upload"
)

type candidateRepository interface {
	List(ctx context.Context, query models.CandidateListQuery) ([]models.CandidateDetail, int, error)
	Filter(ctx context.Context, filter models.CandidateFilter) ([]models.CandidateDetail, error)
	FindByID(ctx context.Context, id string) (*models.CandidateDetail, error)
	Create(ctx context.Context, candidate *models.Candidate) error
	Update(ctx context.Context, candidate *models.Candidate) error
	Delete(ctx context.Context, id string) error
}

type filiereCounter interface {
	CountByCenter(ctx context.Context, centerID string) (int, error)
}

type documentStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Read(filename string) ([]byte, error)
	Delete(filename string) error
}

// DocumentKindCV and DocumentKindCover name the two per-candidate uploads.
const (
	DocumentKindCV    = "cv"
	DocumentKindCover = "cover"
)

// CreateCandidateRequest carries the public intake form. Both documents are
// mandatory on creation.
type CreateCandidateRequest struct {
	FullName  string `validate:"required,min=2,max=200"`
	LinkedIn  string `validate:"omitempty,url"`
	Portfolio string `validate:"omitempty,url"`
	CenterID  string
	FiliereID string
	CV        *upload.Document
	Cover     *upload.Document
}

// UpdateCandidateRequest edits identity attributes; either document may be
// replaced, and an absent document keeps the stored one.
type UpdateCandidateRequest struct {
	FullName  string `validate:"required,min=2,max=200"`
	LinkedIn  string `validate:"omitempty,url"`
	Portfolio string `validate:"omitempty,url"`
	CenterID  string
	FiliereID string
	CV        *upload.Document
	Cover     *upload.Document
}

// DocumentFile is a stored document resolved for download.
type DocumentFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// CandidateService implements intake, listing, filtering and document
// retrieval for candidates.
type CandidateService struct {
	repo     candidateRepository
	filieres filiereCounter
	storage  documentStorage
	uploads  *upload.Validator
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewCandidateService constructs the candidate service.
func NewCandidateService(
	repo candidateRepository,
	filieres filiereCounter,
	storage documentStorage,
	uploads *upload.Validator,
	logger *zap.Logger,
) *CandidateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidateService{
		repo:     repo,
		filieres: filieres,
		storage:  storage,
		uploads:  uploads,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// Create registers a new candidate in the Available state and stores both
// uploaded documents.
func (s *CandidateService) Create(ctx context.Context, req CreateCandidateRequest) (*models.CandidateDetail, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid candidate payload")
	}
	if req.CV == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cv document is required")
	}
	if req.Cover == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cover letter document is required")
	}
	if _, err := s.uploads.Validate(*req.CV); err != nil {
		return nil, err
	}
	if _, err := s.uploads.Validate(*req.Cover); err != nil {
		return nil, err
	}

	candidate := &models.Candidate{
		ID:        uuid.NewString(),
		FullName:  strings.TrimSpace(req.FullName),
		LinkedIn:  strings.TrimSpace(req.LinkedIn),
		Portfolio: strings.TrimSpace(req.Portfolio),
		CenterID:  optionalID(req.CenterID),
		FiliereID: optionalID(req.FiliereID),
	}

	cvPath, err := s.storeDocument(candidate.ID, DocumentKindCV, req.CV)
	if err != nil {
		return nil, err
	}
	candidate.CVPath = cvPath
	candidate.CVName = safeFilename(req.CV.Filename)

	coverPath, err := s.storeDocument(candidate.ID, DocumentKindCover, req.Cover)
	if err != nil {
		return nil, err
	}
	candidate.CoverPath = coverPath
	candidate.CoverName = safeFilename(req.Cover.Filename)

	if err := s.repo.Create(ctx, candidate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create candidate")
	}

	s.logger.Info("candidate created",
		zap.String("candidate_id", candidate.ID),
		zap.String("full_name", candidate.FullName))

	return s.findDetail(ctx, candidate.ID)
}

// Update edits an existing candidate and optionally replaces documents.
func (s *CandidateService) Update(ctx context.Context, id string, req UpdateCandidateRequest) (*models.CandidateDetail, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid candidate payload")
	}

	existing, err := s.findDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	candidate := existing.Candidate
	candidate.FullName = strings.TrimSpace(req.FullName)
	candidate.LinkedIn = strings.TrimSpace(req.LinkedIn)
	candidate.Portfolio = strings.TrimSpace(req.Portfolio)
	candidate.CenterID = optionalID(req.CenterID)
	candidate.FiliereID = optionalID(req.FiliereID)

	if req.CV != nil {
		if _, err := s.uploads.Validate(*req.CV); err != nil {
			return nil, err
		}
		cvPath, err := s.storeDocument(candidate.ID, DocumentKindCV, req.CV)
		if err != nil {
			return nil, err
		}
		candidate.CVPath = cvPath
		candidate.CVName = safeFilename(req.CV.Filename)
	}
	if req.Cover != nil {
		if _, err := s.uploads.Validate(*req.Cover); err != nil {
			return nil, err
		}
		coverPath, err := s.storeDocument(candidate.ID, DocumentKindCover, req.Cover)
		if err != nil {
			return nil, err
		}
		candidate.CoverPath = coverPath
		candidate.CoverName = safeFilename(req.Cover.Filename)
	}

	if err := s.repo.Update(ctx, &candidate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update candidate")
	}

	return s.findDetail(ctx, id)
}

// List returns a dashboard page of candidates plus slicing metadata.
func (s *CandidateService) List(ctx context.Context, query models.CandidateListQuery) ([]models.CandidateDetail, *models.Pagination, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 5
	}

	candidates, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list candidates")
	}

	now := s.now()
	for i := range candidates {
		AttachRemainingTime(&candidates[i], now)
	}

	return candidates, &models.Pagination{
		Page:       query.Page,
		PageSize:   query.PageSize,
		TotalCount: total,
	}, nil
}

// Filter returns every candidate matching the supplied criteria. A center
// with no filieres short-circuits to a validation error before touching the
// candidate table, matching the scoped-selection precondition of the intake
// screens.
func (s *CandidateService) Filter(ctx context.Context, filter models.CandidateFilter) ([]models.CandidateDetail, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", filter.Status))
	}
	if filter.CenterID != "" {
		count, err := s.filieres.CountByCenter(ctx, filter.CenterID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect center filieres")
		}
		if count == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "selected center has no filieres")
		}
	}

	candidates, err := s.repo.Filter(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to filter candidates")
	}

	now := s.now()
	for i := range candidates {
		AttachRemainingTime(&candidates[i], now)
	}
	return candidates, nil
}

// Get fetches a single candidate with display names and remaining time.
func (s *CandidateService) Get(ctx context.Context, id string) (*models.CandidateDetail, error) {
	return s.findDetail(ctx, id)
}

// Delete removes a candidate and best-effort cleans up stored documents.
func (s *CandidateService) Delete(ctx context.Context, id string) error {
	detail, err := s.findDetail(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete candidate")
	}

	for _, stored := range []string{detail.CVPath, detail.CoverPath} {
		if stored == "" {
			continue
		}
		if err := s.storage.Delete(stored); err != nil {
			s.logger.Warn("failed to remove candidate document",
				zap.String("candidate_id", id),
				zap.String("path", stored),
				zap.Error(err))
		}
	}

	s.logger.Info("candidate deleted", zap.String("candidate_id", id))
	return nil
}

// Document loads a candidate's stored CV or cover letter for download.
func (s *CandidateService) Document(ctx context.Context, id, kind string) (*DocumentFile, error) {
	detail, err := s.findDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	var storedPath, storedName string
	switch kind {
	case DocumentKindCV:
		storedPath, storedName = detail.CVPath, detail.CVName
	case DocumentKindCover:
		storedPath, storedName = detail.CoverPath, detail.CoverName
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown document kind %q", kind))
	}
	if storedPath == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
	}

	data, err := s.storage.Read(storedPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "document not found")
	}
	if storedName == "" {
		storedName = fmt.Sprintf("%s.pdf", kind)
	}
	return &DocumentFile{Name: storedName, ContentType: "application/pdf", Data: data}, nil
}

func (s *CandidateService) findDetail(ctx context.Context, id string) (*models.CandidateDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "candidate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidate")
	}
	AttachRemainingTime(detail, s.now())
	return detail, nil
}

func (s *CandidateService) storeDocument(candidateID, kind string, doc *upload.Document) (string, error) {
	filename := fmt.Sprintf("candidates/%s/%s.pdf", candidateID, kind)
	if _, err := doc.Content.Seek(0, io.SeekStart); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to rewind upload stream")
	}
	stored, err := s.storage.SaveStream(filename, doc.Content)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store document")
	}
	return stored, nil
}

func optionalID(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func safeFilename(raw string) string {
	base := path.Base(strings.ReplaceAll(raw, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "document.pdf"
	}
	return base
}
