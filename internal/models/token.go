package models

import "time"

// AccessToken is the server-side record of an issued bearer token.
// Logout deletes the row, revoking the token before its expiry.
type AccessToken struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"unique;not null" json:"token"`
	UserID    int       `json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Scope     string    `gorm:"default:'read write'" json:"scope"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
