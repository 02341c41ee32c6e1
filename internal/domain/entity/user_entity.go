package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Passwords are stored as PBKDF2 hashes alongside their per-user salt.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	PasswordSalt string
	Role         Role
	IsVerified   bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
