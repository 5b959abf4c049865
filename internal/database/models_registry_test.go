package database

import (
	"testing"

	modelspkg "spincat/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestPersistentModels_IncludesMemeAndSession(t *testing.T) {
	var meme, session bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *modelspkg.Meme:
			meme = true
		case *modelspkg.AdminSession:
			session = true
		}
	}
	require.True(t, meme, "PersistentModels should include Meme")
	require.True(t, session, "PersistentModels should include AdminSession")
}

func TestPersistentTables_MatchModels(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	require.Len(t, PersistentTables(), len(PersistentModels()))
	for _, table := range PersistentTables() {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
