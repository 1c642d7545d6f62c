package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vuminhhieu/rent-house/backend/internal/models"
	"github.com/vuminhhieu/rent-house/backend/internal/storage"
)

type ImageHandler struct {
	db      *gorm.DB
	uploads storage.Uploader
}

func NewImageHandler(db *gorm.DB, uploads storage.Uploader) *ImageHandler {
	return &ImageHandler{db: db, uploads: uploads}
}

// Upload pushes an image to the object store and records the returned
// URL. Listings reference the resulting image ids at creation.
func (h *ImageHandler) Upload(c *gin.Context) {
	if _, ok := extractUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"image": "Image file is required."})
		return
	}

	if h.uploads == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Object storage is not configured"})
		return
	}

	url, err := h.uploads.Upload(c.Request.Context(), file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image := models.Image{ImageURL: url, IsActive: true}
	if err := h.db.Create(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}

	c.JSON(http.StatusCreated, image)
}
