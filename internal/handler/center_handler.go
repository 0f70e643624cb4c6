package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/models"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/service"
	appErrors "github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/errors"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/response"
)

type centerService interface {
	List(ctx context.Context) ([]models.Center, error)
	Get(ctx context.Context, id string) (*models.Center, error)
	Create(ctx context.Context, req service.CenterRequest) (*models.Center, error)
	Update(ctx context.Context, id string, req service.CenterRequest) (*models.Center, error)
	Delete(ctx context.Context, id string) error
}

// CenterHandler exposes the training-center taxonomy endpoints.
type CenterHandler struct {
	centers centerService
}

// NewCenterHandler constructs the center handler.
func NewCenterHandler(centers centerService) *CenterHandler {
	return &CenterHandler{centers: centers}
}

// List godoc
// @Summary List all training centers
// @Tags centers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /center [get]
func (h *CenterHandler) List(c *gin.Context) {
	centers, err := h.centers.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, centers, nil)
}

// Get returns one center.
func (h *CenterHandler) Get(c *gin.Context) {
	center, err := h.centers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, center, nil)
}

// Create registers a new center.
func (h *CenterHandler) Create(c *gin.Context) {
	var req service.CenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid center payload"))
		return
	}
	center, err := h.centers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, center)
}

// Update edits a center.
func (h *CenterHandler) Update(c *gin.Context) {
	var req service.CenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid center payload"))
		return
	}
	center, err := h.centers.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, center, nil)
}

// Delete removes a center.
func (h *CenterHandler) Delete(c *gin.Context) {
	if err := h.centers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
