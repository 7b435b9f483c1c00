package models

import (
	"strconv"
	"time"

	"gamescope/app/internal/backend"

	"gorm.io/gorm"
)

// Account represents a registered user on the backend.
type Account struct {
	gorm.Model
	Name         string `gorm:"size:255;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:50;not null;default:'user';index"`
}

// PublicID is the account ID as it appears in documents (userId fields).
func (a Account) PublicID() string {
	return strconv.FormatUint(uint64(a.ID), 10)
}

// IsAdmin reports whether the account may write to admin-only collections.
func (a Account) IsAdmin() bool {
	return a.Role == "admin"
}

// ToUser converts the account to its client-facing form.
func (a Account) ToUser() backend.User {
	return backend.User{ID: a.PublicID(), Name: a.Name, Email: a.Email}
}

// Session is one signed-in device. Deleting the row revokes its token.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36"`
	AccountID uint      `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time

	Account Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
