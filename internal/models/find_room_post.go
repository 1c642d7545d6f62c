package models

import "time"

// FindRoomPost is a tenant's "looking for a room" post. Same address and
// price shape as RentalPost but no moderation workflow.
type FindRoomPost struct {
	ID      int    `gorm:"primaryKey" json:"id"`
	Content string `gorm:"not null" json:"content"`

	City          string `gorm:"size:100;not null" json:"city"`
	District      string `gorm:"size:100;not null" json:"district"`
	Ward          string `gorm:"size:100" json:"ward"`
	DetailAddress string `gorm:"not null" json:"detail_address"`

	Price    float64 `gorm:"not null" json:"price"`
	IsActive bool    `gorm:"default:true" json:"is_active"`

	UserID int  `json:"user_id"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Comments []Comment `gorm:"-" json:"comments"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
