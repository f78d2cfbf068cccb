package models

import "time"

// Session is a server-side login record. A bearer token is only honoured
// while its session row exists and has not expired.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	AccountID uint      `gorm:"index;not null" json:"account_id"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its lifetime at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
