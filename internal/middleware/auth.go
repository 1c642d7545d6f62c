package middleware

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	_ "github.com/joho/godotenv/autoload"
	"gorm.io/gorm"

	"github.com/vuminhhieu/rent-house/backend/internal/models"
)

var jwtSecret = []byte(os.Getenv("JWT_SECRET"))

// parseToken validates the JWT signature and checks the matching
// access-token row still exists, so logout revokes server-side.
func parseToken(db *gorm.DB, tokenString string) (userID int, role string, ok bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, isHMAC := token.Method.(*jwt.SigningMethodHMAC); !isHMAC {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", false
	}

	claims, isMap := token.Claims.(jwt.MapClaims)
	if !isMap {
		return 0, "", false
	}

	idClaim, hasID := claims["user_id"].(float64)
	roleClaim, hasRole := claims["role"].(string)
	if !hasID || !hasRole {
		return 0, "", false
	}

	var stored models.AccessToken
	err = db.Where("token = ? AND expires_at > ?", tokenString, time.Now()).First(&stored).Error
	if err != nil {
		return 0, "", false
	}

	return int(idClaim), roleClaim, true
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// AuthRequired rejects requests without a valid, unrevoked token.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		userID, role, ok := parseToken(db, tokenString)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set("user_id", userID)
		c.Set("user_role", role)
		c.Set("token", tokenString)
		c.Next()
	}
}

// AuthOptional resolves the identity when a token is present but lets
// anonymous requests through. Listing endpoints use it: visibility
// depends on who is asking.
func AuthOptional(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if userID, role, ok := parseToken(db, tokenString); ok {
				c.Set("user_id", userID)
				c.Set("user_role", role)
				c.Set("token", tokenString)
			}
		}
		c.Next()
	}
}
