package model

import "time"

type User struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string     `gorm:"not null;uniqueIndex;size:64" json:"username"`
	Password  string     `gorm:"not null;size:255" json:"-"`
	Email     string     `gorm:"not null;size:255" json:"-"`
	Role      string     `gorm:"not null;size:20;default:USER" json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	LastLogin *time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
