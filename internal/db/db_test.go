package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/synap5e/homehero-web/internal/config"
	"github.com/synap5e/homehero-web/internal/models"
)

func TestOpen_DisabledWithoutURL(t *testing.T) {
	db, err := Open(&config.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, db)
}

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Configure(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable(&models.ActivityLog{}))
}
