package database

import (
	"fmt"
	"log"
	"strings"

	"gst-reporting-service/internal/models"
	"gorm.io/gorm"
)

// MigrationRecord tracks which migrations have been applied
type MigrationRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Version   string `gorm:"uniqueIndex;size:255"`
	AppliedAt int64  `gorm:"autoCreateTime"`
}

// RunMigrations runs all pending database migrations
func RunMigrations(db *gorm.DB) error {
	log.Println("Starting database migrations...")

	// Step 1: Create migration tracking table
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}

	// Step 2: Run GORM AutoMigrate for model schema (one by one for better error handling)
	log.Println("  → Running schema migrations...")
	modelsToMigrate := []struct {
		name  string
		model interface{}
	}{
		{"ReportRecord", &models.ReportRecord{}},
		{"Bill", &models.Bill{}},
		{"OfflineInvoice", &models.OfflineInvoice{}},
	}
	for _, m := range modelsToMigrate {
		log.Printf("    → Migrating %s...", m.name)
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("failed to auto-migrate %s: %w", m.name, err)
		}
		log.Printf("    ✓ %s migrated", m.name)
	}
	log.Println("  ✓ Schema migrations complete")

	// Step 3: Ensure unique indexes exist for ON CONFLICT clauses
	// GORM AutoMigrate doesn't add indexes to existing tables, so we create them explicitly
	log.Println("  → Ensuring unique indexes exist...")
	if err := ensureUniqueIndexes(db); err != nil {
		return fmt.Errorf("failed to create unique indexes: %w", err)
	}
	log.Println("  ✓ Unique indexes verified")

	log.Println("✓ All database migrations complete")
	return nil
}

// ensureUniqueIndexes creates unique indexes required for ON CONFLICT clauses
// These indexes may not exist if tables were created before the GORM model tags were added
// GORM uses plural table names (report_records, bills, etc.)
func ensureUniqueIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		sql   string
		table string
	}{
		// ReportRecord: unique on (store_name, report_type, month, year) so the
		// first writer wins for a period
		{
			name:  "idx_report_unique",
			sql:   `CREATE UNIQUE INDEX IF NOT EXISTS idx_report_unique ON report_records (store_name, report_type, month, year)`,
			table: "report_records",
		},
	}

	for _, idx := range indexes {
		// Check if table exists before trying to create index
		var exists bool
		checkSQL := fmt.Sprintf("SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = '%s')", idx.table)
		if err := db.Raw(checkSQL).Scan(&exists).Error; err != nil {
			log.Printf("    (warning: could not check table %s: %v)", idx.table, err)
			continue
		}
		if !exists {
			log.Printf("    (skipping index %s: table %s does not exist)", idx.name, idx.table)
			continue
		}

		if err := db.Exec(idx.sql).Error; err != nil {
			// Log but don't fail if index already exists with different name
			if strings.Contains(err.Error(), "already exists") {
				log.Printf("    (index %s already exists, skipping)", idx.name)
				continue
			}
			return err
		}
		log.Printf("    ✓ Created/verified index %s", idx.name)
	}

	return nil
}
