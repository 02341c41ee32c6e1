package entity

import "time"

// AuditLog is an append-only record of a state-changing action.
type AuditLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
}
