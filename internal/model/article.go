package model

import "time"

type Article struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title    string `gorm:"not null;size:255" json:"title"`
	Content  string `gorm:"not null;type:text" json:"content"`
	AuthorID int64  `gorm:"not null;index" json:"authorId"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`
	BoardID  int64  `gorm:"not null;index" json:"boardId"`
	Board    Board  `gorm:"foreignKey:BoardID" json:"-"`
	// Deletion is logical only; deleted rows stay in the table.
	IsDeleted bool      `gorm:"not null;default:false" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	// Nil until the article is edited for the first time. Set explicitly by
	// the edit path, so gorm's automatic update timestamping is disabled.
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (Article) TableName() string {
	return "articles"
}
