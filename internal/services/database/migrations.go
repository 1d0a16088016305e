package database

import (
	"fmt"

	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/models"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// Migrate creates the answer cache schema. On PostgreSQL it also enables
// pg_trgm and builds a trigram index on the key column so fuzzy lookups can
// use the native similarity operator.
func (db *DB) Migrate() error {
	if db.driverName == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pg_trgm").Error; err != nil {
			return fmt.Errorf("failed to enable pg_trgm: %w", err)
		}
	}

	if err := db.AutoMigrate(&models.CacheEntry{}); err != nil {
		return fmt.Errorf("failed to migrate qa_cache: %w", err)
	}

	if db.driverName == "postgres" {
		err := db.Exec(
			"CREATE INDEX IF NOT EXISTS idx_qa_cache_key_trgm ON qa_cache USING gin (key gin_trgm_ops)",
		).Error
		if err != nil {
			return fmt.Errorf("failed to create trigram index: %w", err)
		}
	}

	fiberlog.Infof("database: migrations complete (driver=%s)", db.driverName)
	return nil
}
