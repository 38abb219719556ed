package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and creates custom indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Guest{},
		&Category{},
		&EmailTemplate{},
	); err != nil {
		return err
	}

	// Case-insensitive lookup index for per-organization attendance stats.
	if err := db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_guests_organization_lower " +
			"ON guests ((lower(organization)))",
	).Error; err != nil {
		return err
	}

	// Operators page through arrivals most-recent-first.
	return db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_guests_check_in_time " +
			"ON guests (check_in_time) WHERE checked_in",
	).Error
}
