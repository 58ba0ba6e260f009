package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gst-reporting-service/internal/middleware"
	"gst-reporting-service/internal/services"
)

// ReportHandler handles the GST report HTTP requests
type ReportHandler struct {
	service *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// yearParam parses an optional ?year= query into an int filter.
func yearParam(c *gin.Context) *int {
	raw := c.Query("year")
	if raw == "" {
		return nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &year
}

// respondError maps a service error onto its HTTP status.
func respondError(c *gin.Context, err error) {
	var re *services.ReportError
	if !errors.As(err, &re) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "INTERNAL",
			"message": err.Error(),
		})
		return
	}

	status := http.StatusInternalServerError
	switch re.Code {
	case services.CodeMissingCredentials, services.CodeValidation:
		status = http.StatusBadRequest
	case services.CodeNotFound:
		status = http.StatusNotFound
	case services.CodeUpstreamFailure:
		status = http.StatusBadGateway
	}

	body := gin.H{
		"error":   string(re.Code),
		"message": re.Message,
	}
	if re.Code == services.CodeUpstreamFailure && re.Err != nil {
		body["upstream"] = re.Err.Error()
	}
	c.JSON(status, body)
}

// GSTR1 handles GET /api/v1/reports/gstr1?month=&year=&type=b2b|b2c
func (h *ReportHandler) GSTR1(c *gin.Context) {
	payload, err := h.service.GSTR1(
		c.Request.Context(),
		middleware.GetCredentials(c),
		c.Query("month"),
		yearParam(c),
		c.Query("type"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// HSNSales handles GET /api/v1/reports/hsn-sales?month=&year=
func (h *ReportHandler) HSNSales(c *gin.Context) {
	payload, err := h.service.HSNSales(
		c.Request.Context(),
		middleware.GetCredentials(c),
		c.Query("month"),
		yearParam(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// HSNPurchase handles GET /api/v1/reports/hsn-purchase?month=&year=
func (h *ReportHandler) HSNPurchase(c *gin.Context) {
	payload, err := h.service.HSNPurchase(
		c.Request.Context(),
		middleware.GetCredentials(c),
		c.Query("month"),
		yearParam(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// SupplySummary handles GET /api/v1/reports/supply-summary?month=&year=
func (h *ReportHandler) SupplySummary(c *gin.Context) {
	summary, err := h.service.SupplySummary(
		c.Request.Context(),
		middleware.GetCredentials(c),
		c.Query("month"),
		yearParam(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// DocumentSummary handles GET /api/v1/reports/document-summary?month=&year=
func (h *ReportHandler) DocumentSummary(c *gin.Context) {
	summary, err := h.service.DocumentSummary(
		c.Request.Context(),
		middleware.GetCredentials(c),
		c.Query("month"),
		yearParam(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ITC handles GET /api/v1/reports/itc?month=&year=
func (h *ReportHandler) ITC(c *gin.Context) {
	summary, err := h.service.ITC(
		c.Request.Context(),
		middleware.GetCredentials(c),
		c.Query("month"),
		yearParam(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Orders handles GET /api/v1/reports/orders?startDate=&endDate=
func (h *ReportHandler) Orders(c *gin.Context) {
	report, err := h.service.OrderReport(
		c.Request.Context(),
		middleware.GetCredentials(c),
		c.Query("startDate"),
		c.Query("endDate"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Saved handles GET /api/v1/reports/saved
func (h *ReportHandler) Saved(c *gin.Context) {
	records, err := h.service.SavedReports(c.Request.Context(), middleware.GetCredentials(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
