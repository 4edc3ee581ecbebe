package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/boardhub/api/internal/model"
)

const (
	// WriteCooldown is the minimum interval between two articles by the
	// same author.
	WriteCooldown = 5 * time.Minute
	// EditCooldown is the minimum interval between two edits of the same
	// article.
	EditCooldown = 10 * time.Minute
)

var (
	ErrWriteLimited = errors.New("article writing is restricted by rate limit")
	ErrEditLimited  = errors.New("article editing is restricted by rate limit")
)

// ArticleFinder is the read side of the article store the limiter decides
// over. Both methods return (nil, nil) when no matching article exists.
type ArticleFinder interface {
	LatestByAuthor(ctx context.Context, authorID int64) (*model.Article, error)
	ByID(ctx context.Context, articleID int64) (*model.Article, error)
}

// Limiter holds no state of its own; every decision is computed from the
// article history at call time.
type Limiter struct {
	articles ArticleFinder
}

func New(articles ArticleFinder) *Limiter {
	return &Limiter{articles: articles}
}

// CanWrite permits a write only if the author's most recent non-deleted
// article is more than WriteCooldown old. An author with no articles can
// always write.
func (l *Limiter) CanWrite(ctx context.Context, authorID int64, now time.Time) (bool, error) {
	latest, err := l.articles.LatestByAuthor(ctx, authorID)
	if err != nil {
		return false, err
	}
	if latest == nil {
		return true, nil
	}
	return latest.CreatedAt.Before(now.Add(-WriteCooldown)), nil
}

// CanEdit permits an edit only if the article has never been edited or its
// last edit is more than EditCooldown old. A missing article is never
// editable; the caller surfaces not-found separately.
func (l *Limiter) CanEdit(ctx context.Context, articleID int64, now time.Time) (bool, error) {
	article, err := l.articles.ByID(ctx, articleID)
	if err != nil {
		return false, err
	}
	if article == nil {
		return false, nil
	}
	if article.UpdatedAt == nil {
		return true, nil
	}
	return article.UpdatedAt.Before(now.Add(-EditCooldown)), nil
}
