// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account in the devconnect application.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Avatar    string         `json:"avatar"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Tokens    []UserToken    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// UserToken is one entry in a user's active-token list. A bearer token is
// accepted only while a matching row exists, which is what makes logout and
// per-session revocation effective before the token expires.
type UserToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"not null;index" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
