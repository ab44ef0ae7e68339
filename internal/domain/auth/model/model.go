package model

import (
	"time"
)

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"size:50;not null;uniqueIndex:ix_users_email" json:"email"`
	Username     string    `gorm:"size:50;not null;uniqueIndex:ix_users_username" json:"username"`
	PasswordHash string    `gorm:"column:hashed_password;size:100;not null" json:"-"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	IsSuperuser  bool      `gorm:"not null;default:false" json:"is_superuser"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (User) TableName() string { return "f_users" }

// Session is the result of a successful login.
type Session struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	TTL         time.Duration
	User        User
}

// Entities lists every persisted entity. New tables are added here by hand.
func Entities() []any {
	return []any{
		&User{},
	}
}
