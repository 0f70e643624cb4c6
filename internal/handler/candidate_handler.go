package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/models"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/service"
	appErrors "github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/errors"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/response"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/upload"
)

type candidateService interface {
	Create(ctx context.Context, req service.CreateCandidateRequest) (*models.CandidateDetail, error)
	Update(ctx context.Context, id string, req service.UpdateCandidateRequest) (*models.CandidateDetail, error)
	List(ctx context.Context, query models.CandidateListQuery) ([]models.CandidateDetail, *models.Pagination, error)
	Filter(ctx context.Context, filter models.CandidateFilter) ([]models.CandidateDetail, error)
	Get(ctx context.Context, id string) (*models.CandidateDetail, error)
	Delete(ctx context.Context, id string) error
	Document(ctx context.Context, id, kind string) (*service.DocumentFile, error)
}

type statusService interface {
	Transition(ctx context.Context, candidateID string, transition service.StatusTransition) (*models.CandidateDetail, error)
}

type bundleService interface {
	CandidateBundle(ctx context.Context, candidateID string) (*service.BundleResult, error)
}

type statsInvalidator interface {
	Invalidate(ctx context.Context, centerIDs ...string)
}

// CandidateHandler exposes the candidate intake and management endpoints.
type CandidateHandler struct {
	candidates candidateService
	status     statusService
	bundles    bundleService
	stats      statsInvalidator
}

// NewCandidateHandler constructs the candidate handler.
func NewCandidateHandler(candidates candidateService, status statusService, bundles bundleService, stats statsInvalidator) *CandidateHandler {
	return &CandidateHandler{candidates: candidates, status: status, bundles: bundles, stats: stats}
}

// Create godoc
// @Summary Register a candidate with CV and cover letter
// @Tags candidates
// @Accept mpfd
// @Produce json
// @Param fullName formData string true "Full name"
// @Param cv formData file true "CV (PDF)"
// @Param cover formData file true "Cover letter (PDF)"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /candidat/add [post]
func (h *CandidateHandler) Create(c *gin.Context) {
	cv, err := formDocument(c, "cv")
	if err != nil {
		response.Error(c, err)
		return
	}
	cover, err := formDocument(c, "cover")
	if err != nil {
		response.Error(c, err)
		return
	}

	req := service.CreateCandidateRequest{
		FullName:  c.PostForm("fullName"),
		LinkedIn:  c.PostForm("linkedin"),
		Portfolio: c.PostForm("portfolio"),
		CenterID:  c.PostForm("centerId"),
		FiliereID: c.PostForm("filiereId"),
		CV:        cv,
		Cover:     cover,
	}

	detail, err := h.candidates.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidate(c, detail)
	response.Created(c, detail)
}

// List godoc
// @Summary List candidates with pagination
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Page size (default 5)"
// @Param search query string false "Name search"
// @Success 200 {object} response.Envelope
// @Router /candidat/all [get]
func (h *CandidateHandler) List(c *gin.Context) {
	query := models.CandidateListQuery{
		Search:   c.Query("search"),
		Page:     intQuery(c, "page"),
		PageSize: intQuery(c, "pageSize"),
	}
	candidates, pagination, err := h.candidates.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidates, pagination)
}

// Filter godoc
// @Summary Filter candidates by center, filiere and status
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Param center query string false "Center ID"
// @Param filiere query string false "Filiere ID"
// @Param status query string false "Status (Disponible, Stage, Emploi)"
// @Success 200 {object} response.Envelope
// @Router /candidat/filters [get]
func (h *CandidateHandler) Filter(c *gin.Context) {
	filter := models.CandidateFilter{
		CenterID:  c.Query("center"),
		FiliereID: c.Query("filiere"),
		Status:    models.Status(c.Query("status")),
	}
	candidates, err := h.candidates.Filter(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidates, nil)
}

// Get returns a single candidate.
func (h *CandidateHandler) Get(c *gin.Context) {
	detail, err := h.candidates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Update godoc
// @Summary Edit a candidate, optionally replacing documents
// @Tags candidates
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Candidate ID"
// @Success 200 {object} response.Envelope
// @Router /candidat/{id} [put]
func (h *CandidateHandler) Update(c *gin.Context) {
	req := service.UpdateCandidateRequest{
		FullName:  c.PostForm("fullName"),
		LinkedIn:  c.PostForm("linkedin"),
		Portfolio: c.PostForm("portfolio"),
		CenterID:  c.PostForm("centerId"),
		FiliereID: c.PostForm("filiereId"),
	}
	if doc, err := optionalFormDocument(c, "cv"); err != nil {
		response.Error(c, err)
		return
	} else {
		req.CV = doc
	}
	if doc, err := optionalFormDocument(c, "cover"); err != nil {
		response.Error(c, err)
		return
	} else {
		req.Cover = doc
	}

	detail, err := h.candidates.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidate(c, detail)
	response.JSON(c, http.StatusOK, gin.H{"updated": detail}, nil)
}

// Delete removes a candidate and its stored documents.
func (h *CandidateHandler) Delete(c *gin.Context) {
	detail, err := h.candidates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.candidates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.invalidate(c, detail)
	response.NoContent(c)
}

// stageRequest mirrors the internship wire payload; dates arrive as
// "2006-01-02" strings from the intake screens.
type stageRequest struct {
	Company   string `json:"stageCompany"`
	Title     string `json:"stageTitle"`
	StartDate string `json:"stageStartDate"`
	EndDate   string `json:"stageEndDate"`
	Type      string `json:"stageType"`
}

type jobRequest struct {
	Company      string `json:"jobCompany"`
	Title        string `json:"jobTitle"`
	ContractType string `json:"jobContractType"`
	StartDate    string `json:"jobStartDate"`
}

// SetInternship godoc
// @Summary Move a candidate into the Internship state
// @Tags candidates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Candidate ID"
// @Param details body stageRequest true "Internship details"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /candidat/{id}/stage [put]
func (h *CandidateHandler) SetInternship(c *gin.Context) {
	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid internship payload"))
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid stageStartDate"))
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid stageEndDate"))
		return
	}
	h.transition(c, service.StatusTransition{
		Target: models.StatusInternship,
		Internship: &models.InternshipDetails{
			Company:   req.Company,
			Title:     req.Title,
			StartDate: start,
			EndDate:   end,
			Type:      req.Type,
		},
	})
}

// SetEmployment godoc
// @Summary Move a candidate into the Employed state
// @Tags candidates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Candidate ID"
// @Param details body jobRequest true "Employment details"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /candidat/{id}/job [put]
func (h *CandidateHandler) SetEmployment(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid employment payload"))
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid jobStartDate"))
		return
	}
	h.transition(c, service.StatusTransition{
		Target: models.StatusEmployed,
		Employment: &models.EmploymentDetails{
			Company:      req.Company,
			Title:        req.Title,
			ContractType: req.ContractType,
			StartDate:    start,
		},
	})
}

// SetAvailable godoc
// @Summary Move a candidate back to the Available state
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Candidate ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /candidat/{id}/disponible [put]
func (h *CandidateHandler) SetAvailable(c *gin.Context) {
	h.transition(c, service.StatusTransition{Target: models.StatusAvailable})
}

func (h *CandidateHandler) transition(c *gin.Context, transition service.StatusTransition) {
	updated, err := h.status.Transition(c.Request.Context(), c.Param("id"), transition)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidate(c, updated)
	response.JSON(c, http.StatusOK, gin.H{"updated": updated}, nil)
}

// DownloadCV streams the stored CV.
func (h *CandidateHandler) DownloadCV(c *gin.Context) {
	h.document(c, service.DocumentKindCV)
}

// DownloadCover streams the stored cover letter.
func (h *CandidateHandler) DownloadCover(c *gin.Context) {
	h.document(c, service.DocumentKindCover)
}

func (h *CandidateHandler) document(c *gin.Context, kind string) {
	file, err := h.candidates.Document(c.Request.Context(), c.Param("id"), kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Bundle godoc
// @Summary Download a ZIP with the candidate's profile and documents
// @Tags candidates
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Candidate ID"
// @Success 200
// @Router /candidat/{id}/bundle [get]
func (h *CandidateHandler) Bundle(c *gin.Context) {
	bundle, err := h.bundles.CandidateBundle(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", bundle.Filename))
	c.Data(http.StatusOK, "application/zip", bundle.Data)
}

func (h *CandidateHandler) invalidate(c *gin.Context, detail *models.CandidateDetail) {
	if h.stats == nil {
		return
	}
	var centerID string
	if detail != nil && detail.CenterID != nil {
		centerID = *detail.CenterID
	}
	h.stats.Invalidate(c.Request.Context(), centerID)
}

func formDocument(c *gin.Context, field string) (*upload.Document, error) {
	doc, err := optionalFormDocument(c, field)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s file is required", field))
	}
	return doc, nil
}

func optionalFormDocument(c *gin.Context, field string) (*upload.Document, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || strings.Contains(err.Error(), "no such file") {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid multipart form")
	}
	file, err := header.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open upload")
	}
	return &upload.Document{
		Filename: header.Filename,
		Size:     header.Size,
		MimeType: header.Header.Get("Content-Type"),
		Content:  file,
	}, nil
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func intQuery(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
