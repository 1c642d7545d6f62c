package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vuminhhieu/rent-house/backend/internal/comments"
	"github.com/vuminhhieu/rent-house/backend/internal/models"
	"github.com/vuminhhieu/rent-house/backend/internal/permissions"
)

type FindRoomPostHandler struct {
	db *gorm.DB
}

func NewFindRoomPostHandler(db *gorm.DB) *FindRoomPostHandler {
	return &FindRoomPostHandler{db: db}
}

func (h *FindRoomPostHandler) attachComments(posts []models.FindRoomPost) error {
	ids := make([]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	grouped, err := comments.ForTargets(h.db, models.TargetFindRoomPost, ids)
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

// GetFindRoomPosts returns active find-room posts, newest first. No
// moderation workflow applies here.
func (h *FindRoomPostHandler) GetFindRoomPosts(c *gin.Context) {
	var posts []models.FindRoomPost
	err := h.db.Preload("User").
		Where("is_active = ?", true).
		Order("created_at desc").
		Find(&posts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch find room posts"})
		return
	}

	if err := h.attachComments(posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	if posts == nil {
		posts = []models.FindRoomPost{}
	}

	c.JSON(http.StatusOK, posts)
}

// GetFindRoomPost returns a single find-room post by id.
func (h *FindRoomPostHandler) GetFindRoomPost(c *gin.Context) {
	var post models.FindRoomPost
	err := h.db.Preload("User").
		Where("is_active = ?", true).
		First(&post, c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Find room post not found"})
		return
	}

	page := []models.FindRoomPost{post}
	if err := h.attachComments(page); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, page[0])
}

// CreateFindRoomPost creates a search-request post for the tenant.
func (h *FindRoomPostHandler) CreateFindRoomPost(c *gin.Context) {
	if !requireAction(c, permissions.ActionCreateFindRoomPost) {
		return
	}

	userID, _ := extractUserID(c)

	var input struct {
		Content       string  `json:"content" binding:"required"`
		City          string  `json:"city" binding:"required"`
		District      string  `json:"district" binding:"required"`
		Ward          string  `json:"ward"`
		DetailAddress string  `json:"detail_address" binding:"required"`
		Price         float64 `json:"price" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := models.FindRoomPost{
		Content:       input.Content,
		City:          input.City,
		District:      input.District,
		Ward:          input.Ward,
		DetailAddress: input.DetailAddress,
		Price:         input.Price,
		IsActive:      true,
		UserID:        userID,
	}

	if err := h.db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create find room post"})
		return
	}

	post.Comments = []models.Comment{}
	c.JSON(http.StatusCreated, post)
}

// UpdateFindRoomPost updates a post (owner only).
func (h *FindRoomPostHandler) UpdateFindRoomPost(c *gin.Context) {
	if !requireAction(c, permissions.ActionUpdateFindRoomPost) {
		return
	}

	userID, _ := extractUserID(c)

	var post models.FindRoomPost
	if err := h.db.First(&post, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Find room post not found"})
		return
	}

	if post.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own posts"})
		return
	}

	var input struct {
		Content       string   `json:"content"`
		City          string   `json:"city"`
		District      string   `json:"district"`
		Ward          string   `json:"ward"`
		DetailAddress string   `json:"detail_address"`
		Price         *float64 `json:"price"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
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

	if err := h.db.Save(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update find room post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeleteFindRoomPost deletes a post (owner only).
func (h *FindRoomPostHandler) DeleteFindRoomPost(c *gin.Context) {
	if !requireAction(c, permissions.ActionDeleteFindRoomPost) {
		return
	}

	userID, _ := extractUserID(c)

	var post models.FindRoomPost
	if err := h.db.First(&post, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Find room post not found"})
		return
	}

	if post.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		return
	}

	if err := h.db.Delete(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete find room post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Find room post deleted successfully"})
}

// MyFindRoomPosts lists the tenant's own posts.
func (h *FindRoomPostHandler) MyFindRoomPosts(c *gin.Context) {
	if !requireAction(c, permissions.ActionListMyFindRoom) {
		return
	}

	userID, _ := extractUserID(c)

	var posts []models.FindRoomPost
	err := h.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at desc").
		Find(&posts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch find room posts"})
		return
	}

	if err := h.attachComments(posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	if posts == nil {
		posts = []models.FindRoomPost{}
	}

	c.JSON(http.StatusOK, posts)
}
