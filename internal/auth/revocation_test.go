package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/boardhub/api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) (*RevocationStore, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.RevokedToken{}))

	return NewRevocationStore(db, nil), db
}

func entryCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.RevokedToken{}).Count(&count).Error)
	return count
}

func TestRevokeAndIsRevoked(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	revoked, err := store.IsRevoked(ctx, "token-1", now)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "token-1", now.Add(time.Hour), "alice"))

	revoked, err = store.IsRevoked(ctx, "token-1", now)
	require.NoError(t, err)
	assert.True(t, revoked)

	// A different token stays unaffected.
	revoked, err = store.IsRevoked(ctx, "token-2", now)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeIsIdempotent(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Revoke(ctx, "token-1", now.Add(time.Hour), "alice"))
	require.NoError(t, store.Revoke(ctx, "token-1", now.Add(time.Hour), "alice"))

	assert.EqualValues(t, 1, entryCount(t, db))

	revoked, err := store.IsRevoked(ctx, "token-1", now)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestExpiredEntryIsLazilyEvicted(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Revoke(ctx, "token-1", now.Add(time.Hour), "alice"))

	// Still revoked right up to the expiry instant.
	revoked, err := store.IsRevoked(ctx, "token-1", now.Add(59*time.Minute))
	require.NoError(t, err)
	assert.True(t, revoked)

	// At and after expiry the entry reports false and is removed.
	revoked, err = store.IsRevoked(ctx, "token-1", now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.EqualValues(t, 0, entryCount(t, db))

	// The lookup after eviction stays false.
	revoked, err = store.IsRevoked(ctx, "token-1", now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestConcurrentRevokesConverge(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Revoke(ctx, "token-1", expiresAt, "alice"))
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, entryCount(t, db))

	revoked, err := store.IsRevoked(ctx, "token-1", time.Now())
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestDeleteExpired(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Revoke(ctx, "dead-1", now.Add(-time.Hour), "alice"))
	require.NoError(t, store.Revoke(ctx, "dead-2", now.Add(-time.Minute), "bob"))
	require.NoError(t, store.Revoke(ctx, "live-1", now.Add(time.Hour), "carol"))

	evicted, err := store.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, evicted)
	assert.EqualValues(t, 1, entryCount(t, db))

	revoked, err := store.IsRevoked(ctx, "live-1", now)
	require.NoError(t, err)
	assert.True(t, revoked)
}
