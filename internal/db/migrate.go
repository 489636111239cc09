package db

import (
	"fmt"

	"github.com/zulandar/kcalbot/internal/models"
	"gorm.io/gorm"
)

// AllModels returns the GORM models to migrate.
func AllModels() []interface{} {
	return []interface{}{
		&models.Entry{},
	}
}

// Migrate creates or updates all tables and repairs databases created by
// pre-split schema versions. Safe to run on every startup.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	if err := BackfillLegacyModes(db); err != nil {
		return err
	}
	return nil
}

// BackfillLegacyModes stamps mode="weight" on rows written before the
// weight/direct split introduced the mode column. AutoMigrate adds the
// column with a default, but rows that predate it carry NULL or empty
// string. Idempotent.
func BackfillLegacyModes(db *gorm.DB) error {
	result := db.Model(&models.Entry{}).
		Where("mode IS NULL OR mode = ?", "").
		Update("mode", models.ModeWeight)
	if result.Error != nil {
		return fmt.Errorf("db: backfill legacy modes: %w", result.Error)
	}
	return nil
}
