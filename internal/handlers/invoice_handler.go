package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gst-reporting-service/internal/gst"
	"gst-reporting-service/internal/middleware"
	"gst-reporting-service/internal/models"
	"gst-reporting-service/internal/period"
	"gst-reporting-service/internal/repository"
	"gst-reporting-service/internal/services"
)

// InvoiceHandler handles offline invoice HTTP requests
type InvoiceHandler struct {
	invoices repository.InvoiceStoreInterface
	service  *services.ReportService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoices repository.InvoiceStoreInterface, service *services.ReportService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, service: service}
}

// applyInvoiceTaxes fills the stored totals from the invoice's rate fields.
func applyInvoiceTaxes(invoice *models.OfflineInvoice) {
	b := gst.ComputeFlatTaxes(invoice.Rate, invoice.GST, invoice.Cess)
	invoice.TotalTax = gst.Round2(b.IGST + b.Cess)
	invoice.Total = gst.Round2(invoice.Rate + invoice.TotalTax + invoice.ShippingCharge)
}

func invoiceID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "VALIDATION",
			"message": "Invalid invoice ID",
		})
		return uuid.Nil, false
	}
	return id, true
}

// List handles GET /api/v1/invoices. Tax inputs are trimmed from the
// response; use the /full variant for the complete record.
func (h *InvoiceHandler) List(c *gin.Context) {
	creds := middleware.GetCredentials(c)
	invoices, err := h.invoices.ListInvoices(c.Request.Context(), creds.StoreName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "INTERNAL",
			"message": "Failed to load invoices",
		})
		return
	}

	views := make([]models.OfflineInvoiceView, 0, len(invoices))
	for _, invoice := range invoices {
		views = append(views, invoice.View())
	}
	c.JSON(http.StatusOK, views)
}

// Get handles GET /api/v1/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	invoice, err := h.invoices.GetInvoice(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "NOT_FOUND",
				"message": "Invoice not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "INTERNAL",
			"message": "Failed to load invoice",
		})
		return
	}
	c.JSON(http.StatusOK, invoice.View())
}

// GetFull handles GET /api/v1/invoices/full/:id, returning the record with
// its tax inputs included.
func (h *InvoiceHandler) GetFull(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	invoice, err := h.invoices.GetInvoice(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "NOT_FOUND",
				"message": "Invoice not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "INTERNAL",
			"message": "Failed to load invoice",
		})
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// Create handles POST /api/v1/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var invoice models.OfflineInvoice
	if err := c.ShouldBindJSON(&invoice); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "VALIDATION",
			"message": err.Error(),
		})
		return
	}

	creds := middleware.GetCredentials(c)
	if invoice.StoreName == "" {
		invoice.StoreName = creds.StoreName
	}
	if invoice.StoreName == "" || invoice.InvoiceNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "VALIDATION",
			"message": "storeName and invoiceNumber are required",
		})
		return
	}
	if invoice.InvoiceDate != "" {
		if _, err := period.ParseDMY(invoice.InvoiceDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "VALIDATION",
				"message": "invoiceDate must be DD/MM/YYYY",
			})
			return
		}
	}
	applyInvoiceTaxes(&invoice)

	if err := h.invoices.CreateInvoice(c.Request.Context(), &invoice); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "INTERNAL",
			"message": "Failed to create invoice",
		})
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// Update handles PUT /api/v1/invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	existing, err := h.invoices.GetInvoice(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "NOT_FOUND",
				"message": "Invoice not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "INTERNAL",
			"message": "Failed to load invoice",
		})
		return
	}

	var invoice models.OfflineInvoice
	if err := c.ShouldBindJSON(&invoice); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "VALIDATION",
			"message": err.Error(),
		})
		return
	}
	invoice.ID = existing.ID
	invoice.StoreName = existing.StoreName
	invoice.CreatedAt = existing.CreatedAt
	applyInvoiceTaxes(&invoice)

	if err := h.invoices.UpdateInvoice(c.Request.Context(), &invoice); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "INTERNAL",
			"message": "Failed to update invoice",
		})
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// Delete handles DELETE /api/v1/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	if err := h.invoices.DeleteInvoice(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "NOT_FOUND",
				"message": "Invoice not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "INTERNAL",
			"message": "Failed to delete invoice",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

// Summary handles GET /api/v1/invoices/summary?startDate=&endDate=
func (h *InvoiceHandler) Summary(c *gin.Context) {
	creds := middleware.GetCredentials(c)
	summary, err := h.service.InvoiceSummary(
		c.Request.Context(),
		creds.StoreName,
		c.Query("startDate"),
		c.Query("endDate"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
