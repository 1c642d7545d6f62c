package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vuminhhieu/rent-house/backend/internal/mailer"
	"github.com/vuminhhieu/rent-house/backend/internal/models"
	"github.com/vuminhhieu/rent-house/backend/internal/permissions"
)

type FollowHandler struct {
	db   *gorm.DB
	mail mailer.Mailer
}

func NewFollowHandler(db *gorm.DB, mail mailer.Mailer) *FollowHandler {
	return &FollowHandler{db: db, mail: mail}
}

// Follow creates a follow edge: only a tenant may follow, and only a
// landlord may be followed. The followed landlord gets a mail; a
// delivery failure never fails the committed edge.
func (h *FollowHandler) Follow(c *gin.Context) {
	if !requireAction(c, permissions.ActionFollow) {
		return
	}

	followerID, _ := extractUserID(c)

	var input struct {
		Followed int `json:"followed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var followed models.User
	if err := h.db.First(&followed, input.Followed).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
		return
	}

	if followed.Role != models.RoleLandlord {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "You can only follow (Chu_Nha_Tro)."})
		return
	}

	var existing models.Follow
	if err := h.db.Where("follower_id = ? AND followed_id = ?", followerID, followed.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"followed": "Follow already exists."})
		return
	}

	follow := models.Follow{FollowerID: followerID, FollowedID: followed.ID}
	if err := h.db.Create(&follow).Error; err != nil {
		// Unique index catches the concurrent duplicate
		c.JSON(http.StatusBadRequest, gin.H{"followed": "Follow already exists."})
		return
	}

	var follower models.User
	if err := h.db.First(&follower, followerID).Error; err == nil {
		subject := "Bạn có một người theo dõi mới!"
		body := fmt.Sprintf("Người dùng %s đã bắt đầu theo dõi bạn trên hệ thống RentHouse.", follower.Email)
		if err := h.mail.Send(subject, body, []string{followed.Email}); err != nil {
			log.Printf("Failed to send new-follower mail to %s: %v", followed.Email, err)
		}
	}

	c.JSON(http.StatusCreated, follow)
}

// Unfollow removes the follow edge to the given user.
func (h *FollowHandler) Unfollow(c *gin.Context) {
	if !requireAction(c, permissions.ActionUnfollow) {
		return
	}

	followerID, _ := extractUserID(c)

	var input struct {
		Followed *int `json:"followed"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Followed == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "followed is required"})
		return
	}

	var followed models.User
	if err := h.db.First(&followed, *input.Followed).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found."})
		return
	}

	var follow models.Follow
	if err := h.db.Where("follower_id = ? AND followed_id = ?", followerID, followed.ID).First(&follow).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "You are not following this user."})
		return
	}

	if err := h.db.Delete(&follow).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unfollowed"})
}

// Following lists the users the authenticated user follows.
func (h *FollowHandler) Following(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var follows []models.Follow
	if err := h.db.Preload("Followed").Where("follower_id = ?", userID).Find(&follows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch following"})
		return
	}

	following := make([]models.User, 0, len(follows))
	for _, follow := range follows {
		following = append(following, follow.Followed)
	}

	c.JSON(http.StatusOK, following)
}

// CountFollowers returns the landlord's follower count.
func (h *FollowHandler) CountFollowers(c *gin.Context) {
	if !requireAction(c, permissions.ActionCountFollowers) {
		return
	}

	userID, _ := extractUserID(c)

	var count int64
	if err := h.db.Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"total_follower": count})
}
