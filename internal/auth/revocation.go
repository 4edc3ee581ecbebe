package auth

import (
	"context"
	"errors"
	"time"

	"github.com/boardhub/api/internal/cache"
	"github.com/boardhub/api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RevocationStore records tokens that were invalidated before their natural
// expiry (logout-all). The database is the source of truth; Redis is an
// optional read-through cache and every cache failure is ignored.
type RevocationStore struct {
	db    *gorm.DB
	cache *cache.RedisCache
}

func NewRevocationStore(db *gorm.DB, redisCache *cache.RedisCache) *RevocationStore {
	return &RevocationStore{db: db, cache: redisCache}
}

// Revoke records the token as revoked. Calling it again for the same token
// is a no-op; concurrent calls converge on a single row via the unique index
// on the token column.
func (s *RevocationStore) Revoke(ctx context.Context, token string, expiresAt time.Time, username string) error {
	entry := model.RevokedToken{
		Token:     token,
		Username:  username,
		ExpiresAt: expiresAt,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token"}}, DoNothing: true}).
		Create(&entry).Error
	if err != nil {
		return err
	}

	s.cacheSet(ctx, token, expiresAt)
	return nil
}

// IsRevoked reports whether the token is on the revocation list and that
// entry has not expired yet. An entry whose expiry has passed is evicted on
// the spot and reported as not revoked: the token is unusable regardless.
func (s *RevocationStore) IsRevoked(ctx context.Context, token string, now time.Time) (bool, error) {
	if s.cacheHit(ctx, token) {
		return true, nil
	}

	var entry model.RevokedToken
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !entry.ExpiresAt.After(now) {
		// Lazy eviction keeps the table from accumulating dead entries.
		s.db.WithContext(ctx).Delete(&model.RevokedToken{}, entry.ID)
		s.cacheDelete(ctx, token)
		return false, nil
	}

	s.cacheSet(ctx, token, entry.ExpiresAt)
	return true, nil
}

// DeleteExpired removes every entry whose expiry has passed and returns the
// number of rows evicted. Used by the background sweeper and the flush job.
func (s *RevocationStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.RevokedToken{})
	return res.RowsAffected, res.Error
}

func (s *RevocationStore) cacheHit(ctx context.Context, token string) bool {
	if s.cache == nil {
		return false
	}
	val, err := s.cache.Get(ctx, cache.RevocationKey(token))
	return err == nil && len(val) > 0
}

func (s *RevocationStore) cacheSet(ctx context.Context, token string, expiresAt time.Time) {
	if s.cache == nil {
		return
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	s.cache.Set(ctx, cache.RevocationKey(token), []byte("1"), ttl)
}

func (s *RevocationStore) cacheDelete(ctx context.Context, token string) {
	if s.cache == nil {
		return
	}
	s.cache.Delete(ctx, cache.RevocationKey(token))
}
