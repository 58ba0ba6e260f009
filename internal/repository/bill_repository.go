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

// BillListCacheTTL bounds how long a cached bill list may serve reads.
const BillListCacheTTL = 10 * time.Minute

// BillStoreInterface is the persistence contract for purchase bills.
type BillStoreInterface interface {
	ListBills(ctx context.Context, storeName string) ([]models.Bill, error)
	GetBill(ctx context.Context, id uuid.UUID) (*models.Bill, error)
	CreateBill(ctx context.Context, bill *models.Bill) error
	UpdateBill(ctx context.Context, bill *models.Bill) error
	DeleteBill(ctx context.Context, id uuid.UUID) error
}

// BillRepository handles purchase bill persistence.
type BillRepository struct {
	db    *gorm.DB
	redis *redis.Client
	cache *cache.CacheLayer
}

var _ BillStoreInterface = (*BillRepository)(nil)

// NewBillRepository creates a new bill repository. redisClient may be nil.
func NewBillRepository(db *gorm.DB, redisClient *redis.Client) *BillRepository {
	repo := &BillRepository{
		db:    db,
		redis: redisClient,
	}

	if redisClient != nil {
		cacheConfig := cache.CacheConfig{
			L1Enabled:  true,
			L1MaxItems: 1000,
			L1TTL:      30 * time.Second,
			DefaultTTL: BillListCacheTTL,
			KeyPrefix:  "gstreports:",
		}
		repo.cache = cache.NewCacheLayerFromClient(redisClient, cacheConfig)
	}

	return repo
}

func generateBillListCacheKey(storeName string) string {
	return "bills:list:" + storeName
}

// invalidateBillCache drops cached bill lists after a write.
func (r *BillRepository) invalidateBillCache(ctx context.Context, storeName string) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, generateBillListCacheKey(storeName))
	_ = r.cache.DeletePattern(ctx, "bills:list:*")
}

// ListBills lists all bills for a store, oldest first.
func (r *BillRepository) ListBills(ctx context.Context, storeName string) ([]models.Bill, error) {
	cacheKey := generateBillListCacheKey(storeName)

	// Try to get from cache first
	if r.redis != nil {
		val, err := r.redis.Get(ctx, "gstreports:"+cacheKey).Result()
		if err == nil {
			var bills []models.Bill
			if err := json.Unmarshal([]byte(val), &bills); err == nil {
				return bills, nil
			}
		}
	}

	var bills []models.Bill
	err := r.db.WithContext(ctx).
		Where("store_name = ?", storeName).
		Order("bill_date ASC").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}

	// Cache the result
	if r.redis != nil {
		data, marshalErr := json.Marshal(bills)
		if marshalErr == nil {
			r.redis.Set(ctx, "gstreports:"+cacheKey, data, BillListCacheTTL)
		}
	}

	return bills, nil
}

// GetBill gets a bill by ID.
func (r *BillRepository) GetBill(ctx context.Context, id uuid.UUID) (*models.Bill, error) {
	var bill models.Bill
	err := r.db.WithContext(ctx).First(&bill, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// CreateBill creates a new bill.
func (r *BillRepository) CreateBill(ctx context.Context, bill *models.Bill) error {
	err := r.db.WithContext(ctx).Create(bill).Error
	if err == nil {
		r.invalidateBillCache(ctx, bill.StoreName)
	}
	return err
}

// UpdateBill updates a bill.
func (r *BillRepository) UpdateBill(ctx context.Context, bill *models.Bill) error {
	bill.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Save(bill).Error
	if err == nil {
		r.invalidateBillCache(ctx, bill.StoreName)
	}
	return err
}

// DeleteBill deletes a bill.
func (r *BillRepository) DeleteBill(ctx context.Context, id uuid.UUID) error {
	var bill models.Bill
	if err := r.db.WithContext(ctx).First(&bill, "id = ?", id).Error; err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Delete(&models.Bill{}, "id = ?", id).Error
	if err == nil {
		r.invalidateBillCache(ctx, bill.StoreName)
	}
	return err
}
