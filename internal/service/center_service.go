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

type centerRepository interface {
	List(ctx context.Context) ([]models.Center, error)
	FindByID(ctx context.Context, id string) (*models.Center, error)
	Create(ctx context.Context, center *models.Center) error
	Update(ctx context.Context, center *models.Center) error
	Delete(ctx context.Context, id string) error
}

// CenterRequest carries the editable attributes of a training center.
type CenterRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Address     string `json:"address" validate:"max=500"`
	Phone       string `json:"phone" validate:"max=30"`
}

// CenterService manages the top level of the intake taxonomy.
type CenterService struct {
	repo     centerRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCenterService constructs the center service.
func NewCenterService(repo centerRepository, logger *zap.Logger) *CenterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CenterService{repo: repo, validate: validator.New(), logger: logger}
}

// List returns every center.
func (s *CenterService) List(ctx context.Context) ([]models.Center, error) {
	centers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list centers")
	}
	return centers, nil
}

// Get fetches one center.
func (s *CenterService) Get(ctx context.Context, id string) (*models.Center, error) {
	center, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "center not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load center")
	}
	return center, nil
}

// Create registers a new center.
func (s *CenterService) Create(ctx context.Context, req CenterRequest) (*models.Center, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid center payload")
	}
	center := &models.Center{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Address:     strings.TrimSpace(req.Address),
		Phone:       strings.TrimSpace(req.Phone),
	}
	if err := s.repo.Create(ctx, center); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create center")
	}
	s.logger.Info("center created", zap.String("center_id", center.ID))
	return center, nil
}

// Update edits an existing center.
func (s *CenterService) Update(ctx context.Context, id string, req CenterRequest) (*models.Center, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid center payload")
	}
	center, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	center.Name = strings.TrimSpace(req.Name)
	center.Description = strings.TrimSpace(req.Description)
	center.Address = strings.TrimSpace(req.Address)
	center.Phone = strings.TrimSpace(req.Phone)
	if err := s.repo.Update(ctx, center); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update center")
	}
	return center, nil
}

// Delete removes a center.
func (s *CenterService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete center")
	}
	s.logger.Info("center deleted", zap.String("center_id", id))
	return nil
}
