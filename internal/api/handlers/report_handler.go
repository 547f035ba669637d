package handlers

import (
	"net/http"

	"example.com/edueat/services/cafeteria/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ReportHandler serves staff reports
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// HandleProfitability returns per-item margins and waste impact
func (h *ReportHandler) HandleProfitability(c *gin.Context) {
	report, err := h.reportService.Profitability(c)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build profitability report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build profitability report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// HandleDashboard returns the staff overview snapshot
func (h *ReportHandler) HandleDashboard(c *gin.Context) {
	summary, err := h.reportService.Dashboard(c)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build dashboard summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RegisterStaffRoutes registers the report routes
func (h *ReportHandler) RegisterStaffRoutes(group *gin.RouterGroup) {
	group.GET("/reports/profitability", h.HandleProfitability)
	group.GET("/dashboard", h.HandleDashboard)
}
