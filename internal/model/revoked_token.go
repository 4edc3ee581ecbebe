package model

import "time"

// RevokedToken is one entry of the token revocation list. An entry only
// matters while ExpiresAt is in the future; after that the token it revokes
// is unusable anyway and the row is eligible for eviction.
type RevokedToken struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string    `gorm:"not null;uniqueIndex;size:512" json:"token"`
	Username  string    `gorm:"not null;index;size:64" json:"username"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
