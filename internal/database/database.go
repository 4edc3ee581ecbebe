package database

import (
	"github.com/boardhub/api/internal/config"
	"github.com/boardhub/api/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Board{},
		&model.Article{},
		&model.RevokedToken{},
	)
	if err != nil {
		return err
	}

	// The rate limiter's "most recent article by author" query runs on every
	// write, so it gets a dedicated composite index.
	db.Exec("CREATE INDEX IF NOT EXISTS idx_articles_author_created ON articles(author_id, created_at DESC)")

	return nil
}
