package contact

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/akeren/landing-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "contact.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ContactSubmission{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestContactRepository_CreateAndCount(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))
	ctx := context.Background()

	first, err := repo.Create(ctx, ToContactSubmissionModel(fullRequest()))
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	// Contact submissions are not unique by email.
	second, err := repo.Create(ctx, ToContactSubmissionModel(fullRequest()))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestContactRepository_CreateFailsWithoutTable(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.ContactSubmission{}))

	_, err := NewContactRepository(db).Create(context.Background(), ToContactSubmissionModel(fullRequest()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to store contact submission")
}
