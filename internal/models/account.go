package models

import "time"

// Account is an administrator login. PasswordHash is a bcrypt digest and is
// never serialized.
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id" example:"1"`
	CreatedAt    time.Time `json:"created_at" example:"2023-01-01T00:00:00Z"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username" example:"admin"`
	PasswordHash string    `gorm:"not null" json:"-"`
}
