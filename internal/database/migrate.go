package database

import (
	"devconnect/internal/models"

	"gorm.io/gorm"
)

// PersistentModels lists every model that AutoMigrate manages. Order matters
// for foreign keys: referenced tables first.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserToken{},
		&models.Profile{},
	}
}

// Migrate runs AutoMigrate for all persistent models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}
