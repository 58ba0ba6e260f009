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
	"gst-reporting-service/internal/repository"
	"gst-reporting-service/internal/services"
)

// BillHandler handles purchase bill HTTP requests
type BillHandler struct {
	bills   repository.BillStoreInterface
	service *services.ReportService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(bills repository.BillStoreInterface, service *services.ReportService) *BillHandler {
	return &BillHandler{bills: bills, service: service}
}

// applyBillTaxes fills the stored tax split from the bill's rate fields.
// The purchase reports aggregate these stored amounts as-is.
func applyBillTaxes(bill *models.Bill) {
	b := gst.ComputeFlatTaxes(bill.Rate, bill.GST, bill.SelectedProduct.Cess)
	bill.TaxableValue = bill.Rate
	bill.IGSTAmount = gst.Round2(b.IGST)
	bill.CGSTAmount = gst.Round2(b.CGST)
	bill.SGSTAmount = gst.Round2(b.SGST)
	bill.CessAmount = gst.Round2(b.Cess)
	bill.TotalTax = gst.Round2(b.IGST + b.Cess)
	bill.Total = gst.Round2(bill.Rate + bill.TotalTax + bill.TotalShippingCharge)
}

// List handles GET /api/v1/bills
func (h *BillHandler) List(c *gin.Context) {
	creds := middleware.GetCredentials(c)
	bills, err := h.bills.ListBills(c.Request.Context(), creds.StoreName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "INTERNAL",
			"message": "Failed to load bills",
		})
		return
	}
	c.JSON(http.StatusOK, bills)
}

// Get handles GET /api/v1/bills/:id
func (h *BillHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "VALIDATION",
			"message": "Invalid bill ID",
		})
		return
	}

	bill, err := h.bills.GetBill(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "NOT_FOUND",
				"message": "Bill not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "INTERNAL",
			"message": "Failed to load bill",
		})
		return
	}
	c.JSON(http.StatusOK, bill)
}

// Create handles POST /api/v1/bills
func (h *BillHandler) Create(c *gin.Context) {
	var bill models.Bill
	if err := c.ShouldBindJSON(&bill); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "VALIDATION",
			"message": err.Error(),
		})
		return
	}

	creds := middleware.GetCredentials(c)
	if bill.StoreName == "" {
		bill.StoreName = creds.StoreName
	}
	if bill.StoreName == "" || bill.BillNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "VALIDATION",
			"message": "storeName and billNumber are required",
		})
		return
	}
	applyBillTaxes(&bill)

	if err := h.bills.CreateBill(c.Request.Context(), &bill); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "INTERNAL",
			"message": "Failed to create bill",
		})
		return
	}
	c.JSON(http.StatusCreated, bill)
}

// Update handles PUT /api/v1/bills/:id
func (h *BillHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "VALIDATION",
			"message": "Invalid bill ID",
		})
		return
	}

	existing, err := h.bills.GetBill(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "NOT_FOUND",
				"message": "Bill not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "INTERNAL",
			"message": "Failed to load bill",
		})
		return
	}

	var bill models.Bill
	if err := c.ShouldBindJSON(&bill); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "VALIDATION",
			"message": err.Error(),
		})
		return
	}
	bill.ID = existing.ID
	bill.StoreName = existing.StoreName
	bill.CreatedAt = existing.CreatedAt
	applyBillTaxes(&bill)

	if err := h.bills.UpdateBill(c.Request.Context(), &bill); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "INTERNAL",
			"message": "Failed to update bill",
		})
		return
	}
	c.JSON(http.StatusOK, bill)
}

// Delete handles DELETE /api/v1/bills/:id
func (h *BillHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "VALIDATION",
			"message": "Invalid bill ID",
		})
		return
	}

	if err := h.bills.DeleteBill(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "NOT_FOUND",
				"message": "Bill not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "INTERNAL",
			"message": "Failed to delete bill",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bill deleted successfully"})
}

// TaxCalculations handles GET /api/v1/bills/tax-calculations?startDate=&endDate=
func (h *BillHandler) TaxCalculations(c *gin.Context) {
	creds := middleware.GetCredentials(c)
	summary, err := h.service.BillTaxCalculations(
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
