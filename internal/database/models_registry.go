package database

import "agora/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserProfile{},
		&models.Category{},
		&models.Idea{},
		&models.IdeaImage{},
		&models.Vote{},
		&models.Comment{},
	}
}
