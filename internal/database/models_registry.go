package database

import "smartchecklist/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Checklist{},
		&models.Item{},
	}
}
