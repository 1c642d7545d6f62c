package models

import "time"

// Comment target tags. A comment references exactly one post through the
// (ContentType, ObjectID) pair; the target must exist at creation time.
const (
	TargetRentalPost   = "rental_post"
	TargetFindRoomPost = "find_room_post"
)

type Comment struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"not null" json:"content"`
	ImageURL string `json:"image_url,omitempty"`

	ContentType string `gorm:"size:30;not null;index:idx_comment_target" json:"content_type"`
	ObjectID    int    `gorm:"not null;index:idx_comment_target" json:"object_id"`

	UserID int  `json:"user_id"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCommentRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	ObjectID    int    `json:"object_id"`
	ImageURL    string `json:"image_url"`
}
