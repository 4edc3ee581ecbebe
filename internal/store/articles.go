package store

import (
	"context"
	"errors"

	"github.com/boardhub/api/internal/model"
	"gorm.io/gorm"
)

// Articles wraps the article queries the rate limiter needs. Handlers keep
// using gorm directly for everything else.
type Articles struct {
	db *gorm.DB
}

func NewArticles(db *gorm.DB) *Articles {
	return &Articles{db: db}
}

// LatestByAuthor returns the author's newest non-deleted article, or nil
// when the author has never written one.
func (s *Articles) LatestByAuthor(ctx context.Context, authorID int64) (*model.Article, error) {
	var article model.Article
	err := s.db.WithContext(ctx).
		Where("author_id = ? AND is_deleted = ?", authorID, false).
		Order("created_at DESC").
		First(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// ByID returns the article regardless of its soft-delete flag, or nil when
// no such row exists.
func (s *Articles) ByID(ctx context.Context, articleID int64) (*model.Article, error) {
	var article model.Article
	err := s.db.WithContext(ctx).First(&article, articleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}
