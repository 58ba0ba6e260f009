package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Tesseract-Nexus/go-shared/cache"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gst-reporting-service/internal/models"
	"gorm.io/gorm"
)

// InvoiceListCacheTTL bounds how long a cached invoice list may serve reads.
const InvoiceListCacheTTL = 10 * time.Minute

// InvoiceStoreInterface is the persistence contract for offline invoices.
type InvoiceStoreInterface interface {
	ListInvoices(ctx context.Context, storeName string) ([]models.OfflineInvoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*models.OfflineInvoice, error)
	CreateInvoice(ctx context.Context, invoice *models.OfflineInvoice) error
	UpdateInvoice(ctx context.Context, invoice *models.OfflineInvoice) error
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
}

// InvoiceRepository handles offline invoice persistence.
type InvoiceRepository struct {
	db    *gorm.DB
	redis *redis.Client
	cache *cache.CacheLayer
}

var _ InvoiceStoreInterface = (*InvoiceRepository)(nil)

// NewInvoiceRepository creates a new invoice repository. redisClient may be
// nil.
func NewInvoiceRepository(db *gorm.DB, redisClient *redis.Client) *InvoiceRepository {
	repo := &InvoiceRepository{
		db:    db,
		redis: redisClient,
	}

	if redisClient != nil {
		cacheConfig := cache.CacheConfig{
			L1Enabled:  true,
			L1MaxItems: 1000,
			L1TTL:      30 * time.Second,
			DefaultTTL: InvoiceListCacheTTL,
			KeyPrefix:  "gstreports:",
		}
		repo.cache = cache.NewCacheLayerFromClient(redisClient, cacheConfig)
	}

	return repo
}

func generateInvoiceListCacheKey(storeName string) string {
	return "invoices:list:" + storeName
}

// invalidateInvoiceCache drops cached invoice lists after a write.
func (r *InvoiceRepository) invalidateInvoiceCache(ctx context.Context, storeName string) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, generateInvoiceListCacheKey(storeName))
	_ = r.cache.DeletePattern(ctx, "invoices:list:*")
}

// ListInvoices lists all invoices for a store, newest first.
func (r *InvoiceRepository) ListInvoices(ctx context.Context, storeName string) ([]models.OfflineInvoice, error) {
	cacheKey := generateInvoiceListCacheKey(storeName)

	// Try to get from cache first
	if r.redis != nil {
		val, err := r.redis.Get(ctx, "gstreports:"+cacheKey).Result()
		if err == nil {
			var invoices []models.OfflineInvoice
			if err := json.Unmarshal([]byte(val), &invoices); err == nil {
				return invoices, nil
			}
		}
	}

	var invoices []models.OfflineInvoice
	err := r.db.WithContext(ctx).
		Where("store_name = ?", storeName).
		Order("created_at DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}

	// Cache the result
	if r.redis != nil {
		data, marshalErr := json.Marshal(invoices)
		if marshalErr == nil {
			r.redis.Set(ctx, "gstreports:"+cacheKey, data, InvoiceListCacheTTL)
		}
	}

	return invoices, nil
}

// GetInvoice gets an invoice by ID.
func (r *InvoiceRepository) GetInvoice(ctx context.Context, id uuid.UUID) (*models.OfflineInvoice, error) {
	var invoice models.OfflineInvoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CreateInvoice creates a new invoice.
func (r *InvoiceRepository) CreateInvoice(ctx context.Context, invoice *models.OfflineInvoice) error {
	err := r.db.WithContext(ctx).Create(invoice).Error
	if err == nil {
		r.invalidateInvoiceCache(ctx, invoice.StoreName)
	}
	return err
}

// UpdateInvoice updates an invoice.
func (r *InvoiceRepository) UpdateInvoice(ctx context.Context, invoice *models.OfflineInvoice) error {
	invoice.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Save(invoice).Error
	if err == nil {
		r.invalidateInvoiceCache(ctx, invoice.StoreName)
	}
	return err
}

// DeleteInvoice deletes an invoice. Returns gorm.ErrRecordNotFound when no
// invoice has the ID.
func (r *InvoiceRepository) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	var invoice models.OfflineInvoice
	if err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error; err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Delete(&models.OfflineInvoice{}, "id = ?", id).Error
	if err == nil {
		r.invalidateInvoiceCache(ctx, invoice.StoreName)
	}
	return err
}
