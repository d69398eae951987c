package db

import "gorm.io/gorm"

// Migrate creates or updates the tables for the given models.
func Migrate(db *gorm.DB, models ...any) error {
	return db.AutoMigrate(models...)
}
