package revocation

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/eyxpoliba/emotion-core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}

	db, err := gorm.Open(mysql.New(mysql.Config{DSN: dsn, DefaultStringSize: 191}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.RevokedTokenModel{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM revoked_tokens")
	})
	return NewGormStore(db)
}

func TestRevokeAndLookup(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "token-a", time.Now()))

	revoked, err = store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	// The untouched token stays unaffected.
	revoked, err = store.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestSecondRevokeReportsAlreadyRevoked(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "token-a", time.Now()))
	err := store.Revoke(ctx, "token-a", time.Now())
	assert.ErrorIs(t, err, ErrAlreadyRevoked)
}

func TestPruneRemovesOnlyStaleRecords(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "stale", time.Now().Add(-48*time.Hour)))
	require.NoError(t, store.Revoke(ctx, "fresh", time.Now()))

	deleted, err := store.Prune(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	revoked, err := store.IsRevoked(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, revoked)
}
