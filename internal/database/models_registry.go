package database

import "spincat/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Admin{},
		&models.AdminSession{},
		&models.Meme{},
		&models.Score{},
	}
}

// PersistentTables lists the table names behind PersistentModels.
func PersistentTables() []string {
	return []string{"admins", "admin_sessions", "memes", "scores"}
}
