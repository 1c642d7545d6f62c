package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vuminhhieu/rent-house/backend/internal/models"
	"github.com/vuminhhieu/rent-house/backend/internal/permissions"
	"github.com/vuminhhieu/rent-house/backend/internal/storage"
)

type AuthHandler struct {
	db      *gorm.DB
	uploads storage.Uploader
}

func NewAuthHandler(db *gorm.DB, uploads storage.Uploader) *AuthHandler {
	return &AuthHandler{db: db, uploads: uploads}
}

var jwtSecret = []byte(os.Getenv("JWT_SECRET"))

// GoogleUserInfo represents user data from Google OAuth
type GoogleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Picture       string `json:"picture"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// verifyGoogleIDToken verifies the Google ID token and returns user info
func verifyGoogleIDToken(idToken string) (*GoogleUserInfo, error) {
	resp, err := http.Get(
		"https://oauth2.googleapis.com/tokeninfo?id_token=" + idToken,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invalid google token")
	}

	var user GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	if !user.EmailVerified {
		return nil, fmt.Errorf("email not verified")
	}

	return &user, nil
}

// Register handles user registration. Anyone may self-register as a
// tenant or landlord; only an authenticated admin may create another
// admin account. An avatar file, when present, is pushed to the object
// store before the user row is written.
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	if input.Password != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords not match"})
		return
	}

	role := models.RoleTenant
	if input.Role != "" {
		if !models.ValidRole(input.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		if input.Role == models.RoleAdmin && !permissions.Allowed(permissions.ActionCreateAdmin, currentRole(c)) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "only admin can create admin account"})
			return
		}
		role = input.Role
	}

	var existing models.User
	if err := h.db.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
		return
	}

	avatarURL := models.DefaultAvatarURL
	if file, err := c.FormFile("avatar"); err == nil && h.uploads != nil {
		uploaded, err := h.uploads.Upload(c.Request.Context(), file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		avatarURL = uploaded
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Email:        input.Email,
		Password:     string(hashedPassword),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PhoneNumber:  input.PhoneNumber,
		AvatarURL:    avatarURL,
		Role:         role,
		AuthProvider: "email",
	}

	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User created"})
}

// Login verifies credentials and issues a bearer token, updating the
// user's last_login.
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, expires, err := issueToken(h.db, &user, jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": tokenString,
		"expires_in":   int(time.Until(expires).Seconds()),
		"token_type":   "Bearer",
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"role":       user.Role,
			"avatar_url": user.AvatarURL,
		},
	})
}

// GoogleLogin handles Google social login: verify the id_token, find or
// create the user (tenant by default) and issue a bearer token.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
		Role  string `json:"role"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	googleUser, err := verifyGoogleIDToken(input.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google token"})
		return
	}

	var user models.User
	result := h.db.Where("email = ? OR google_id = ?", googleUser.Email, googleUser.Sub).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		role := models.RoleTenant
		if input.Role == models.RoleLandlord {
			role = models.RoleLandlord
		}

		avatar := googleUser.Picture
		if avatar == "" {
			avatar = models.DefaultAvatarURL
		}

		user = models.User{
			Email:        googleUser.Email,
			FirstName:    googleUser.GivenName,
			LastName:     googleUser.FamilyName,
			AvatarURL:    avatar,
			GoogleID:     googleUser.Sub,
			Role:         role,
			AuthProvider: "google",
		}

		if err := h.db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
	} else if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	} else if user.GoogleID == "" {
		// Existing email account, first social login
		user.GoogleID = googleUser.Sub
		h.db.Save(&user)
	}

	tokenString, expires, err := issueToken(h.db, &user, jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": tokenString,
		"expires_in":   int(time.Until(expires).Seconds()),
		"token_type":   "Bearer",
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"role":       user.Role,
			"avatar_url": user.AvatarURL,
		},
	})
}

// Callback reissues a token for an already-authenticated user, deleting
// any previous token rows for the account first.
func (h *AuthHandler) Callback(c *gin.Context) {
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

	if err := h.db.Where("user_id = ?", user.ID).Delete(&models.AccessToken{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke old tokens"})
		return
	}

	tokenString, expires, err := issueToken(h.db, &user, jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": tokenString,
		"expires_in":   int(time.Until(expires).Seconds()),
		"token_type":   "Bearer",
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
		},
	})
}

// Logout deletes the access-token row, revoking the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	raw, exists := c.Get("token")
	tokenString, _ := raw.(string)
	if !exists || tokenString == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No token"})
		return
	}

	if err := h.db.Where("token = ?", tokenString).Delete(&models.AccessToken{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusOK)
}
