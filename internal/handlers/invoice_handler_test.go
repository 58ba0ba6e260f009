package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gst-reporting-service/internal/middleware"
	"gst-reporting-service/internal/models"
	"gst-reporting-service/internal/repository"
)

type stubInvoiceStore struct {
	mock.Mock
}

var _ repository.InvoiceStoreInterface = (*stubInvoiceStore)(nil)

func (m *stubInvoiceStore) ListInvoices(ctx context.Context, storeName string) ([]models.OfflineInvoice, error) {
	args := m.Called(ctx, storeName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OfflineInvoice), args.Error(1)
}

func (m *stubInvoiceStore) GetInvoice(ctx context.Context, id uuid.UUID) (*models.OfflineInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OfflineInvoice), args.Error(1)
}

func (m *stubInvoiceStore) CreateInvoice(ctx context.Context, invoice *models.OfflineInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *stubInvoiceStore) UpdateInvoice(ctx context.Context, invoice *models.OfflineInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *stubInvoiceStore) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newInvoiceTestRouter(t *testing.T, invoices *stubInvoiceStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewInvoiceHandler(invoices, nil)

	router := gin.New()
	router.Use(middleware.StoreCredentials())
	group := router.Group("/api/v1/invoices")
	group.GET("", handler.List)
	group.DELETE("/:id", handler.Delete)

	return router
}

func TestDeleteInvoiceMissingReturns404(t *testing.T) {
	invoices := &stubInvoiceStore{}
	router := newInvoiceTestRouter(t, invoices)

	id := uuid.New()
	invoices.On("DeleteInvoice", mock.Anything, id).
		Return(gorm.ErrRecordNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/invoices/"+id.String(), nil)
	withCredentials(req)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["error"])
	assert.Equal(t, "Invoice not found", body["message"])
	invoices.AssertExpectations(t)
}

func TestDeleteInvoiceSuccess(t *testing.T) {
	invoices := &stubInvoiceStore{}
	router := newInvoiceTestRouter(t, invoices)

	id := uuid.New()
	invoices.On("DeleteInvoice", mock.Anything, id).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/invoices/"+id.String(), nil)
	withCredentials(req)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	invoices.AssertExpectations(t)
}

func TestDeleteInvoiceInvalidID(t *testing.T) {
	router := newInvoiceTestRouter(t, &stubInvoiceStore{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/invoices/not-a-uuid", nil)
	withCredentials(req)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListInvoicesTrimsTaxInputs(t *testing.T) {
	invoices := &stubInvoiceStore{}
	router := newInvoiceTestRouter(t, invoices)

	invoices.On("ListInvoices", mock.Anything, "teststore").
		Return([]models.OfflineInvoice{
			{InvoiceNumber: "INV-1", HSN: "6403", GST: 18, Rate: 1000, Total: 1180},
		}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	withCredentials(req)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var views []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.NotContains(t, views[0], "hsn")
	assert.NotContains(t, views[0], "gst")
	assert.Equal(t, "INV-1", views[0]["invoiceNumber"])
}
