package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/vuminhhieu/rent-house/backend/internal/mailer"
	"github.com/vuminhhieu/rent-house/backend/internal/models"
	"github.com/vuminhhieu/rent-house/backend/internal/permissions"
	"github.com/vuminhhieu/rent-house/backend/internal/query"
	"github.com/vuminhhieu/rent-house/backend/internal/storage"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	RentalPost   *RentalPostHandler
	FindRoomPost *FindRoomPostHandler
	Comment      *CommentHandler
	Follow       *FollowHandler
	Image        *ImageHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, mail mailer.Mailer, uploads storage.Uploader) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(db, uploads),
		User:         NewUserHandler(db),
		RentalPost:   NewRentalPostHandler(db, mail),
		FindRoomPost: NewFindRoomPostHandler(db),
		Comment:      NewCommentHandler(db),
		Follow:       NewFollowHandler(db, mail),
		Image:        NewImageHandler(db, uploads),
	}
}

const tokenTTL = 24 * time.Hour

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, isInt := raw.(int)
	return id, isInt
}

func currentRole(c *gin.Context) string {
	role, _ := c.Get("user_role")
	s, _ := role.(string)
	return s
}

// viewerFrom builds the visibility viewer for listing queries; nil for
// anonymous requests.
func viewerFrom(c *gin.Context) *query.Viewer {
	id, ok := extractUserID(c)
	if !ok {
		return nil
	}
	return &query.Viewer{ID: id, Role: currentRole(c)}
}

// requireAction gates a handler on the static permission table. It
// assumes AuthRequired already ran; a role outside the table's allowed
// set gets a 403.
func requireAction(c *gin.Context, action permissions.Action) bool {
	if !permissions.Allowed(action, currentRole(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
		return false
	}
	return true
}

// issueToken signs a JWT for the user, persists the matching
// access-token row and bumps last_login.
func issueToken(db *gorm.DB, user *models.User, secret []byte) (string, time.Time, error) {
	expires := time.Now().Add(tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     expires.Unix(),
	})
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}

	record := models.AccessToken{
		Token:     tokenString,
		UserID:    user.ID,
		Scope:     "read write",
		ExpiresAt: expires,
	}
	if err := db.Create(&record).Error; err != nil {
		return "", time.Time{}, err
	}

	now := time.Now()
	db.Model(user).Update("last_login", now)

	return tokenString, expires, nil
}
