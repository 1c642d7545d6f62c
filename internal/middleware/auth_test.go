package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vuminhhieu/rent-house/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.AccessToken{}); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

// signToken mirrors the token issuance path: a signed JWT plus the
// persisted row the middleware checks for revocation.
func signToken(t *testing.T, db *gorm.DB, userID int, role string, expires time.Time) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   "user@rent.vn",
		"role":    role,
		"exp":     expires.Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	require.NoError(t, err)

	record := models.AccessToken{
		Token:     tokenString,
		UserID:    userID,
		Scope:     "read write",
		ExpiresAt: expires,
	}
	require.NoError(t, db.Create(&record).Error)
	return tokenString
}

func authTestRouter(db *gorm.DB, required bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	mw := AuthOptional(db)
	if required {
		mw = AuthRequired(db)
	}

	r.GET("/probe", mw, func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		role, _ := c.Get("user_role")
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	return r
}

func probe(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredValidToken(t *testing.T) {
	db := setupTestDB(t)
	token := signToken(t, db, 7, models.RoleLandlord, time.Now().Add(time.Hour))

	w := probe(authTestRouter(db, true), token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"user_id\":7")
	assert.Contains(t, w.Body.String(), models.RoleLandlord)
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	db := setupTestDB(t)

	w := probe(authTestRouter(db, true), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRevokedToken(t *testing.T) {
	db := setupTestDB(t)
	token := signToken(t, db, 7, models.RoleTenant, time.Now().Add(time.Hour))

	// Logout deletes the row; the JWT alone must no longer pass
	require.NoError(t, db.Where("token = ?", token).Delete(&models.AccessToken{}).Error)

	w := probe(authTestRouter(db, true), token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredExpiredRow(t *testing.T) {
	db := setupTestDB(t)

	// Keep the JWT itself valid so the stored expiry is what rejects
	token := signToken(t, db, 7, models.RoleTenant, time.Now().Add(time.Hour))
	require.NoError(t, db.Model(&models.AccessToken{}).
		Where("token = ?", token).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	w := probe(authTestRouter(db, true), token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredTamperedToken(t *testing.T) {
	db := setupTestDB(t)
	token := signToken(t, db, 7, models.RoleTenant, time.Now().Add(time.Hour))

	w := probe(authTestRouter(db, true), token+"x")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthOptionalAnonymousPassesThrough(t *testing.T) {
	db := setupTestDB(t)

	w := probe(authTestRouter(db, false), "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")
}

func TestAuthOptionalResolvesIdentity(t *testing.T) {
	db := setupTestDB(t)
	token := signToken(t, db, 3, models.RoleTenant, time.Now().Add(time.Hour))

	w := probe(authTestRouter(db, false), token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"user_id\":3")
}

func TestAuthOptionalIgnoresBadToken(t *testing.T) {
	db := setupTestDB(t)

	w := probe(authTestRouter(db, false), "not-a-jwt")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")
}
