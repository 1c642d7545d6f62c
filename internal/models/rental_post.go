package models

import "time"

// RentalPost moderation states. A post starts Pending; only an admin
// moves it to Allow or Deny (or re-opens it).
const (
	StatusPending = "Pending"
	StatusAllow   = "Allow"
	StatusDeny    = "Deny"
)

func ValidStatus(status string) bool {
	return status == StatusPending || status == StatusAllow || status == StatusDeny
}

// MinRentalPostImages is the number of images a listing must reference
// at creation. Validated before the post row is written.
const MinRentalPostImages = 3

type RentalPost struct {
	ID      int    `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"not null" json:"content"`

	City          string `gorm:"size:100;not null" json:"city"`
	District      string `gorm:"size:100;not null" json:"district"`
	Ward          string `gorm:"size:100" json:"ward"`
	DetailAddress string `gorm:"not null" json:"detail_address"`

	Price        float64 `gorm:"not null" json:"price"`
	Area         float64 `gorm:"not null" json:"area"`
	MaxOccupants *int    `json:"max_occupants"` // nil means any occupancy

	Status   string `gorm:"size:20;default:Pending" json:"status"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	UserID int  `json:"user_id"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Images   []Image   `gorm:"foreignKey:RentalPostID" json:"images"`
	Comments []Comment `gorm:"-" json:"comments"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Image holds a remote media reference served by the object store.
// An image starts unattached (uploaded first, referenced at post
// creation) and can be soft-deactivated.
type Image struct {
	ID           int    `gorm:"primaryKey" json:"id"`
	ImageURL     string `gorm:"not null" json:"image_url"`
	RentalPostID *int   `json:"rental_post_id,omitempty"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
}

// SavedPost is a tenant's bookmark of a rental post, unique per pair.
type SavedPost struct {
	ID           int        `gorm:"primaryKey" json:"id"`
	UserID       int        `gorm:"uniqueIndex:idx_user_saved_post" json:"user_id"`
	RentalPostID int        `gorm:"uniqueIndex:idx_user_saved_post" json:"rental_post_id"`
	User         User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RentalPost   RentalPost `gorm:"foreignKey:RentalPostID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}
