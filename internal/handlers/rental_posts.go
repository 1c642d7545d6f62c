package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vuminhhieu/rent-house/backend/internal/comments"
	"github.com/vuminhhieu/rent-house/backend/internal/mailer"
	"github.com/vuminhhieu/rent-house/backend/internal/models"
	"github.com/vuminhhieu/rent-house/backend/internal/permissions"
	"github.com/vuminhhieu/rent-house/backend/internal/query"
)

type RentalPostHandler struct {
	db   *gorm.DB
	mail mailer.Mailer
}

func NewRentalPostHandler(db *gorm.DB, mail mailer.Mailer) *RentalPostHandler {
	return &RentalPostHandler{db: db, mail: mail}
}

// attachComments batch-loads the comments for one page of posts.
func (h *RentalPostHandler) attachComments(posts []models.RentalPost) error {
	ids := make([]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	grouped, err := comments.ForTargets(h.db, models.TargetRentalPost, ids)
	if err != nil {
		return err
	}
	for i := range posts {
		if list, ok := grouped[posts[i].ID]; ok {
			posts[i].Comments = list
		} else {
			posts[i].Comments = []models.Comment{}
		}
	}
	return nil
}

// GetRentalPosts returns the filtered listing page. Visibility is
// decided by the viewer: landlords see their own posts in any status,
// admins may filter by status, everyone else sees approved posts only.
func (h *RentalPostHandler) GetRentalPosts(c *gin.Context) {
	filter, err := query.ParseRentalPostFilter(c)
	if err != nil {
		var fieldErr *query.FieldError
		if errors.As(err, &fieldErr) {
			c.JSON(http.StatusBadRequest, gin.H{fieldErr.Field: fieldErr.Message})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var posts []models.RentalPost
	q := filter.Apply(h.db, viewerFrom(c)).Preload("Images").Preload("User")
	if err := q.Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rental posts"})
		return
	}

	if err := h.attachComments(posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	if posts == nil {
		posts = []models.RentalPost{}
	}

	c.JSON(http.StatusOK, posts)
}

// GetRentalPost returns a single post by id. The detail view resolves
// regardless of status; edit and delete stay ownership-gated.
func (h *RentalPostHandler) GetRentalPost(c *gin.Context) {
	postID := c.Param("id")

	var post models.RentalPost
	err := h.db.Preload("Images").Preload("User").
		Where("is_active = ?", true).
		First(&post, postID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rental post not found"})
		return
	}

	page := []models.RentalPost{post}
	if err := h.attachComments(page); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, page[0])
}

// CreateRentalPost creates a listing for the authenticated landlord.
// The >=3 image references are resolved and validated before the post
// row is written, so a validation failure persists nothing.
func (h *RentalPostHandler) CreateRentalPost(c *gin.Context) {
	if !requireAction(c, permissions.ActionCreateRentalPost) {
		return
	}

	userID, _ := extractUserID(c)

	var input struct {
		Title         string  `json:"title" binding:"required"`
		Content       string  `json:"content" binding:"required"`
		City          string  `json:"city" binding:"required"`
		District      string  `json:"district" binding:"required"`
		Ward          string  `json:"ward"`
		DetailAddress string  `json:"detail_address" binding:"required"`
		Price         float64 `json:"price" binding:"required"`
		Area          float64 `json:"area" binding:"required"`
		MaxOccupants  *int    `json:"max_occupants"`
		ImageIDs      []int   `json:"images"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(input.ImageIDs) < models.MinRentalPostImages {
		c.JSON(http.StatusBadRequest, gin.H{"images": "Minimum 3 images required."})
		return
	}

	var images []models.Image
	if err := h.db.Where("id IN ? AND is_active = ?", input.ImageIDs, true).Find(&images).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve images"})
		return
	}
	if len(images) != len(input.ImageIDs) {
		c.JSON(http.StatusBadRequest, gin.H{"images": "One or more images do not exist."})
		return
	}

	post := models.RentalPost{
		Title:         input.Title,
		Content:       input.Content,
		City:          input.City,
		District:      input.District,
		Ward:          input.Ward,
		DetailAddress: input.DetailAddress,
		Price:         input.Price,
		Area:          input.Area,
		MaxOccupants:  input.MaxOccupants,
		Status:        models.StatusPending,
		IsActive:      true,
		UserID:        userID,
	}

	if err := h.db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rental post"})
		return
	}

	if err := h.db.Model(&models.Image{}).
		Where("id IN ?", input.ImageIDs).
		Update("rental_post_id", post.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach images"})
		return
	}

	h.db.Preload("Images").First(&post, post.ID)
	post.Comments = []models.Comment{}

	c.JSON(http.StatusCreated, post)
}

// UpdateRentalPost updates a listing (owner only).
func (h *RentalPostHandler) UpdateRentalPost(c *gin.Context) {
	if !requireAction(c, permissions.ActionUpdateRentalPost) {
		return
	}

	postID := c.Param("id")
	userID, _ := extractUserID(c)

	var post models.RentalPost
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rental post not found"})
		return
	}

	if post.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own posts"})
		return
	}

	var input struct {
		Title         string   `json:"title"`
		Content       string   `json:"content"`
		City          string   `json:"city"`
		District      string   `json:"district"`
		Ward          string   `json:"ward"`
		DetailAddress string   `json:"detail_address"`
		Price         *float64 `json:"price"`
		Area          *float64 `json:"area"`
		MaxOccupants  *int     `json:"max_occupants"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Title != "" {
		post.Title = input.Title
	}
	if input.Content != "" {
		post.Content = input.Content
	}
	if input.City != "" {
		post.City = input.City
	}
	if input.District != "" {
		post.District = input.District
	}
	if input.Ward != "" {
		post.Ward = input.Ward
	}
	if input.DetailAddress != "" {
		post.DetailAddress = input.DetailAddress
	}
	if input.Price != nil {
		post.Price = *input.Price
	}
	if input.Area != nil {
		post.Area = *input.Area
	}
	if input.MaxOccupants != nil {
		post.MaxOccupants = input.MaxOccupants
	}

	if err := h.db.Save(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update rental post"})
		return
	}

	h.db.Preload("Images").First(&post, post.ID)
	c.JSON(http.StatusOK, post)
}

// DeleteRentalPost deletes a listing (owner only).
func (h *RentalPostHandler) DeleteRentalPost(c *gin.Context) {
	if !requireAction(c, permissions.ActionDeleteRentalPost) {
		return
	}

	postID := c.Param("id")
	userID, _ := extractUserID(c)

	var post models.RentalPost
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rental post not found"})
		return
	}

	if post.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		return
	}

	if err := h.db.Delete(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete rental post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rental post deleted successfully"})
}

// ChangePostStatus moves a listing between moderation states (admin
// only). Approval fans out a mail to every follower of the owner; a
// delivery failure is logged, never failing the committed status change.
func (h *RentalPostHandler) ChangePostStatus(c *gin.Context) {
	if !requireAction(c, permissions.ActionChangePostStatus) {
		return
	}

	var input struct {
		PostID int    `json:"post_id" binding:"required"`
		Status string `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "Invalid status. Must be one of: Pending, Allow, Deny."})
		return
	}

	var post models.RentalPost
	if err := h.db.Preload("User").First(&post, input.PostID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rental post not found!"})
		return
	}

	post.Status = input.Status
	if err := h.db.Save(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if post.Status == models.StatusAllow {
		h.notifyFollowers(&post)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rental post approved successfully!"})
}

// notifyFollowers mails every follower of the post's owner about the
// newly approved listing.
func (h *RentalPostHandler) notifyFollowers(post *models.RentalPost) {
	var follows []models.Follow
	if err := h.db.Preload("Follower").Where("followed_id = ?", post.UserID).Find(&follows).Error; err != nil {
		log.Printf("Failed to load followers for post %d: %v", post.ID, err)
		return
	}
	if len(follows) == 0 {
		return
	}

	recipients := make([]string, 0, len(follows))
	for _, follow := range follows {
		recipients = append(recipients, follow.Follower.Email)
	}

	owner := post.User
	subject := fmt.Sprintf("%s %s vừa có 1 bài đăng mới.", owner.FirstName, owner.LastName)
	body := fmt.Sprintf("Người dùng %s %s mà bạn theo dõi vừa đăng bài mới trên hệ thống RentHouse.", owner.FirstName, owner.LastName)

	if err := h.mail.Send(subject, body, recipients); err != nil {
		log.Printf("Failed to send approval mail for post %d: %v", post.ID, err)
	}
}

// SavePost bookmarks a rental post for the authenticated tenant.
func (h *RentalPostHandler) SavePost(c *gin.Context) {
	if !requireAction(c, permissions.ActionSavePost) {
		return
	}

	userID, _ := extractUserID(c)

	var input struct {
		PostID int `json:"post_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var post models.RentalPost
	if err := h.db.First(&post, input.PostID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rental post not found!"})
		return
	}

	var existing models.SavedPost
	if err := h.db.Where("user_id = ? AND rental_post_id = ?", userID, post.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post already saved."})
		return
	}

	saved := models.SavedPost{UserID: userID, RentalPostID: post.ID}
	if err := h.db.Create(&saved).Error; err != nil {
		// Unique index catches the concurrent duplicate
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post already saved."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rental post saved successfully!"})
}

// DeleteSavedPost removes a bookmark.
func (h *RentalPostHandler) DeleteSavedPost(c *gin.Context) {
	if !requireAction(c, permissions.ActionUnsavePost) {
		return
	}

	userID, _ := extractUserID(c)
	postID := c.Param("id")

	var saved models.SavedPost
	if err := h.db.Where("user_id = ? AND rental_post_id = ?", userID, postID).First(&saved).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rental post not found!"})
		return
	}

	if err := h.db.Delete(&saved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rental post removed successfully!"})
}

// SavedPosts lists the tenant's bookmarked posts.
func (h *RentalPostHandler) SavedPosts(c *gin.Context) {
	if !requireAction(c, permissions.ActionListSavedPosts) {
		return
	}

	userID, _ := extractUserID(c)

	var posts []models.RentalPost
	err := h.db.
		Joins("JOIN saved_posts ON saved_posts.rental_post_id = rental_posts.id").
		Where("saved_posts.user_id = ?", userID).
		Preload("Images").Preload("User").
		Order("saved_posts.created_at desc").
		Find(&posts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch saved posts"})
		return
	}

	if err := h.attachComments(posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	if posts == nil {
		posts = []models.RentalPost{}
	}

	c.JSON(http.StatusOK, posts)
}
