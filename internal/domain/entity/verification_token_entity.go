package entity

import "time"

// EmailVerificationToken is single-use: deleted on successful verification.
type EmailVerificationToken struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (t *EmailVerificationToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
