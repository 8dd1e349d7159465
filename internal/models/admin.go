package models

import "time"

// AdminSession is an opaque moderation-console session. Tokens are random
// UUIDs; expired rows are ignored and overwritten lazily.
type AdminSession struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"unique;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
