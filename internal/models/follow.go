package models

import "time"

// Follow is a directed edge: a tenant (follower) subscribing to a
// landlord (followed). The composite unique index rejects the second of
// two concurrent identical follow requests at the store.
type Follow struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	FollowerID int       `gorm:"uniqueIndex:idx_follower_followed" json:"follower"`
	FollowedID int       `gorm:"uniqueIndex:idx_follower_followed" json:"followed"`
	Follower   User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Followed   User      `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
