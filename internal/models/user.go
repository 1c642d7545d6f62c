package models

import "time"

// Role values are stored as-is in the database and on the wire.
const (
	RoleAdmin    = "Admin"
	RoleLandlord = "Chu_Nha_Tro"
	RoleTenant   = "Nguoi_Thue_Tro"
)

// DefaultAvatarURL is used when a user registers without uploading an avatar.
const DefaultAvatarURL = "https://t4.ftcdn.net/jpg/05/49/98/39/360_F_549983970_bRCkYfk0P6PP5fKbMhZMIb07mCJ6esXL.jpg"

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleLandlord || role == RoleTenant
}

type User struct {
	ID        int    `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"unique;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	PhoneNumber string `gorm:"size:11" json:"phone_number"`
	AvatarURL   string `json:"avatar_url"`
	Role        string `gorm:"size:20;default:Nguoi_Thue_Tro" json:"role"`

	// OAuth fields
	GoogleID     string `gorm:"index" json:"-"`
	AuthProvider string `json:"auth_provider"` // "email" or "google"

	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type RegisterRequest struct {
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
	FirstName       string `form:"first_name" json:"first_name"`
	LastName        string `form:"last_name" json:"last_name"`
	PhoneNumber     string `form:"phone_number" json:"phone_number"`
	Role            string `form:"role" json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
