package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/models"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/service"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/response"
)

type statsService interface {
	CenterStatistics(ctx context.Context, centerID string) (*models.CenterStatistics, error)
	CenterChart(ctx context.Context, centerID string) (*models.ChartData, error)
	CentersRanking(ctx context.Context) ([]models.CenterRanking, error)
}

type reportService interface {
	CentersReport(ctx context.Context, format string) (*service.ReportResult, error)
	OpenReport(token string) (*service.DocumentFile, error)
}

// StatsHandler exposes the dashboard statistics and report endpoints.
type StatsHandler struct {
	stats   statsService
	reports reportService
}

// NewStatsHandler constructs the stats handler.
func NewStatsHandler(stats statsService, reports reportService) *StatsHandler {
	return &StatsHandler{stats: stats, reports: reports}
}

// Centers godoc
// @Summary Rank all centers by candidate volume
// @Tags stats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats/centers [get]
func (h *StatsHandler) Centers(c *gin.Context) {
	ranking, err := h.stats.CentersRanking(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ranking, nil)
}

// Center godoc
// @Summary Status buckets of one center
// @Tags stats
// @Produce json
// @Param id path string true "Center ID"
// @Success 200 {object} response.Envelope
// @Router /stats/center/{id} [get]
func (h *StatsHandler) Center(c *gin.Context) {
	stats, err := h.stats.CenterStatistics(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// CenterChart godoc
// @Summary Chart-shaped status buckets of one center
// @Tags stats
// @Produce json
// @Param id path string true "Center ID"
// @Success 200 {object} response.Envelope
// @Router /stats/center/{id}/chart [get]
func (h *StatsHandler) CenterChart(c *gin.Context) {
	chart, err := h.stats.CenterChart(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, chart, nil)
}

// Export godoc
// @Summary Render the centers report and return a signed download link
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param format query string false "pdf (default) or csv"
// @Success 200 {object} response.Envelope
// @Router /stats/export [post]
func (h *StatsHandler) Export(c *gin.Context) {
	result, err := h.reports.CentersReport(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Download godoc
// @Summary Download a previously rendered report by signed token
// @Tags stats
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200
// @Failure 403 {object} response.Envelope
// @Router /stats/download/{token} [get]
func (h *StatsHandler) Download(c *gin.Context) {
	file, err := h.reports.OpenReport(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
