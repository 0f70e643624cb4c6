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

type filiereService interface {
	List(ctx context.Context) ([]models.Filiere, error)
	ListByCenter(ctx context.Context, centerID string) ([]models.Filiere, error)
	Get(ctx context.Context, id string) (*models.Filiere, error)
	Create(ctx context.Context, req service.FiliereRequest) (*models.Filiere, error)
	Update(ctx context.Context, id string, req service.FiliereRequest) (*models.Filiere, error)
	Delete(ctx context.Context, id string) error
}

// FiliereHandler exposes the training-program taxonomy endpoints.
type FiliereHandler struct {
	filieres filiereService
}

// NewFiliereHandler constructs the filiere handler.
func NewFiliereHandler(filieres filiereService) *FiliereHandler {
	return &FiliereHandler{filieres: filieres}
}

// List godoc
// @Summary List all filieres
// @Tags filieres
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /filiere [get]
func (h *FiliereHandler) List(c *gin.Context) {
	filieres, err := h.filieres.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, filieres, nil)
}

// ListByCenter godoc
// @Summary List the filieres attached to one center
// @Tags filieres
// @Produce json
// @Param id path string true "Center ID"
// @Success 200 {object} response.Envelope
// @Router /filiere/by-center/{id} [get]
func (h *FiliereHandler) ListByCenter(c *gin.Context) {
	filieres, err := h.filieres.ListByCenter(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, filieres, nil)
}

// Get returns one filiere.
func (h *FiliereHandler) Get(c *gin.Context) {
	filiere, err := h.filieres.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, filiere, nil)
}

// Create registers a new filiere.
func (h *FiliereHandler) Create(c *gin.Context) {
	var req service.FiliereRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid filiere payload"))
		return
	}
	filiere, err := h.filieres.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, filiere)
}

// Update edits a filiere.
func (h *FiliereHandler) Update(c *gin.Context) {
	var req service.FiliereRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid filiere payload"))
		return
	}
	filiere, err := h.filieres.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, filiere, nil)
}

// Delete removes a filiere.
func (h *FiliereHandler) Delete(c *gin.Context) {
	if err := h.filieres.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
