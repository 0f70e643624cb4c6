package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/models"
	appErrors "github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/errors"
)

type filiereRepository interface {
	List(ctx context.Context) ([]models.Filiere, error)
	ListByCenter(ctx context.Context, centerID string) ([]models.Filiere, error)
	FindByID(ctx context.Context, id string) (*models.Filiere, error)
	Create(ctx context.Context, filiere *models.Filiere) error
	Update(ctx context.Context, filiere *models.Filiere) error
	Delete(ctx context.Context, id string) error
}

// FiliereRequest carries the editable attributes of a training program.
type FiliereRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=2000"`
	CenterID    string `json:"centerId"`
}

// FiliereService manages the second level of the intake taxonomy.
type FiliereService struct {
	repo     filiereRepository
	centers  centerRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewFiliereService constructs the filiere service.
func NewFiliereService(repo filiereRepository, centers centerRepository, logger *zap.Logger) *FiliereService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FiliereService{repo: repo, centers: centers, validate: validator.New(), logger: logger}
}

// List returns every filiere.
func (s *FiliereService) List(ctx context.Context) ([]models.Filiere, error) {
	filieres, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list filieres")
	}
	return filieres, nil
}

// ListByCenter returns the filieres attached to one center. The center must
// exist; an empty result is a valid answer.
func (s *FiliereService) ListByCenter(ctx context.Context, centerID string) ([]models.Filiere, error) {
	if _, err := s.centers.FindByID(ctx, centerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "center not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load center")
	}
	filieres, err := s.repo.ListByCenter(ctx, centerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list filieres")
	}
	return filieres, nil
}

// Get fetches one filiere.
func (s *FiliereService) Get(ctx context.Context, id string) (*models.Filiere, error) {
	filiere, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "filiere not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load filiere")
	}
	return filiere, nil
}

// Create registers a new filiere, optionally attached to a center.
func (s *FiliereService) Create(ctx context.Context, req FiliereRequest) (*models.Filiere, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid filiere payload")
	}
	centerID := optionalID(req.CenterID)
	if centerID != nil {
		if _, err := s.centers.FindByID(ctx, *centerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "referenced center does not exist")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load center")
		}
	}
	filiere := &models.Filiere{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CenterID:    centerID,
	}
	if err := s.repo.Create(ctx, filiere); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create filiere")
	}
	s.logger.Info("filiere created", zap.String("filiere_id", filiere.ID))
	return filiere, nil
}

// Update edits an existing filiere.
func (s *FiliereService) Update(ctx context.Context, id string, req FiliereRequest) (*models.Filiere, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid filiere payload")
	}
	filiere, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	centerID := optionalID(req.CenterID)
	if centerID != nil {
		if _, err := s.centers.FindByID(ctx, *centerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "referenced center does not exist")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load center")
		}
	}
	filiere.Name = strings.TrimSpace(req.Name)
	filiere.Description = strings.TrimSpace(req.Description)
	filiere.CenterID = centerID
	if err := s.repo.Update(ctx, filiere); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update filiere")
	}
	return filiere, nil
}

// Delete removes a filiere.
func (s *FiliereService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete filiere")
	}
	s.logger.Info("filiere deleted", zap.String("filiere_id", id))
	return nil
}
