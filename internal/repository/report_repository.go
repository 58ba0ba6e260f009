package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gst-reporting-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cache TTL constants for report data
const (
	ReportCacheTTL = 30 * time.Minute // Finalized reports never change, TTL just bounds memory
	cacheKeyPrefix = "gstreports:"
)

// ReportStoreInterface is the persistence contract for memoized reports.
type ReportStoreInterface interface {
	FindByKey(ctx context.Context, storeName string, reportType models.ReportType, month string, year int) (*models.ReportRecord, error)
	Insert(ctx context.Context, record *models.ReportRecord) error
	ListByStore(ctx context.Context, storeName string) ([]models.ReportRecord, error)
}

// ReportRepository persists finalized report payloads with a Redis
// read-through in front of Postgres.
type ReportRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

var _ ReportStoreInterface = (*ReportRepository)(nil)

// NewReportRepository creates a new report repository. redisClient may be
// nil; caching is best-effort.
func NewReportRepository(db *gorm.DB, redisClient *redis.Client) *ReportRepository {
	return &ReportRepository{
		db:    db,
		redis: redisClient,
	}
}

// generateReportCacheKey creates a cache key for a report tuple
func generateReportCacheKey(storeName string, reportType models.ReportType, month string, year int) string {
	return fmt.Sprintf("report:%s:%s:%s:%d", storeName, reportType, month, year)
}

// FindByKey looks up a memoized report by its exact tuple. Returns
// (nil, nil) when no report has been generated for the period yet.
func (r *ReportRepository) FindByKey(ctx context.Context, storeName string, reportType models.ReportType, month string, year int) (*models.ReportRecord, error) {
	cacheKey := generateReportCacheKey(storeName, reportType, month, year)

	// Try to get from cache first
	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKeyPrefix+cacheKey).Result()
		if err == nil {
			var record models.ReportRecord
			if err := json.Unmarshal([]byte(val), &record); err == nil {
				return &record, nil
			}
		}
	}

	// Query from database
	var record models.ReportRecord
	err := r.db.WithContext(ctx).
		Where("store_name = ? AND report_type = ? AND month = ? AND year = ?",
			storeName, reportType, month, year).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// Cache the result
	if r.redis != nil {
		data, marshalErr := json.Marshal(record)
		if marshalErr == nil {
			r.redis.Set(ctx, cacheKeyPrefix+cacheKey, data, ReportCacheTTL)
		}
	}

	return &record, nil
}

// Insert persists a freshly computed report. The unique tuple index makes
// the insert idempotent: when a racing request already stored the period,
// the existing row wins and is read back into record.
func (r *ReportRepository) Insert(ctx context.Context, record *models.ReportRecord) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "store_name"}, {Name: "report_type"}, {Name: "month"}, {Name: "year"},
			},
			DoNothing: true,
		}).
		Create(record)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		// Lost the race, re-read the winner
		err := r.db.WithContext(ctx).
			Where("store_name = ? AND report_type = ? AND month = ? AND year = ?",
				record.StoreName, record.ReportType, record.Month, record.Year).
			First(record).Error
		if err != nil {
			return err
		}
	}

	if r.redis != nil {
		cacheKey := generateReportCacheKey(record.StoreName, record.ReportType, record.Month, record.Year)
		data, marshalErr := json.Marshal(record)
		if marshalErr == nil {
			r.redis.Set(ctx, cacheKeyPrefix+cacheKey, data, ReportCacheTTL)
		}
	}

	return nil
}

// ListByStore lists every persisted report for a store, newest first.
func (r *ReportRepository) ListByStore(ctx context.Context, storeName string) ([]models.ReportRecord, error) {
	var records []models.ReportRecord
	err := r.db.WithContext(ctx).
		Where("store_name = ?", storeName).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
