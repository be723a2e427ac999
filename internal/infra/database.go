package infra

import (
	"fmt"
	"time"

	"github.com/tarekelsergany/gold-ecommerce/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for the three tables, then applies idempotent SQL patches that GORM cannot
// express.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.GoldPrice{},
		&model.Product{},
		&model.PriceHistory{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// ConnectWithRetry dials the store with bounded attempts and exponential
// delay (baseDelay, 2×baseDelay, 4×baseDelay, …). Returns the connection or
// the last error after maxAttempts — callers surface that as StoreUnavailable.
func ConnectWithRetry(dsn string, maxAttempts int, baseDelay time.Duration) (*gorm.DB, error) {
	var lastErr error
	delay := baseDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := NewDatabase(dsn)
		if err == nil {
			if attempt > 1 {
				log.Info().Int("attempt", attempt).Msg("store connection established")
			}
			return db, nil
		}
		lastErr = err
		log.Warn().
			Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Dur("next_delay", delay).
			Err(err).
			Msg("store connection failed")

		if attempt < maxAttempts {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return nil, fmt.Errorf("store unreachable after %d attempts: %w", maxAttempts, lastErr)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate does not cover.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Composite index serving the history endpoint's newest-first query.
		`CREATE INDEX IF NOT EXISTS idx_price_history_product_created
		     ON price_history (product_id, created_at DESC)`,
		// Partial index for the hot "active products, newest first" listing.
		`CREATE INDEX IF NOT EXISTS idx_products_active_created
		     ON products (created_at DESC)
		     WHERE is_active = true`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
