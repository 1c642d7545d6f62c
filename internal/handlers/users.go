package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vuminhhieu/rent-house/backend/internal/models"
	"github.com/vuminhhieu/rent-house/backend/internal/permissions"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// CurrentUser returns the authenticated user's profile.
func (h *UserHandler) CurrentUser(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func quarterMonths(quarter int) []int {
	switch quarter {
	case 1:
		return []int{1, 2, 3}
	case 2:
		return []int{4, 5, 6}
	case 3:
		return []int{7, 8, 9}
	case 4:
		return []int{10, 11, 12}
	}
	return nil
}

// CountUsers is the admin analytics endpoint: tenant and landlord counts,
// optionally restricted to users whose last login falls in a given
// month, quarter or year.
func (h *UserHandler) CountUsers(c *gin.Context) {
	if !requireAction(c, permissions.ActionCountUsers) {
		return
	}

	scope := func(role string) *gorm.DB {
		q := h.db.Model(&models.User{}).Where("role = ?", role)

		if month := c.Query("month"); month != "" {
			q = q.Where("EXTRACT(MONTH FROM last_login) = ?", month)
		}
		if year := c.Query("year"); year != "" {
			q = q.Where("EXTRACT(YEAR FROM last_login) = ?", year)
		}
		return q
	}

	var monthsFilter []int
	if quarter := c.Query("quarter"); quarter != "" {
		n, err := strconv.Atoi(quarter)
		if err != nil || quarterMonths(n) == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quarter"})
			return
		}
		monthsFilter = quarterMonths(n)
	}

	var tenantCount, landlordCount int64

	tenantQuery := scope(models.RoleTenant)
	landlordQuery := scope(models.RoleLandlord)
	if monthsFilter != nil {
		tenantQuery = tenantQuery.Where("EXTRACT(MONTH FROM last_login) IN ?", monthsFilter)
		landlordQuery = landlordQuery.Where("EXTRACT(MONTH FROM last_login) IN ?", monthsFilter)
	}

	if err := tenantQuery.Count(&tenantCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := landlordQuery.Count(&landlordCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nguoi_thue_tro": tenantCount,
		"chu_nha_tro":    landlordCount,
		"total_user":     tenantCount + landlordCount,
	})
}
