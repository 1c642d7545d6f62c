package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vuminhhieu/rent-house/backend/internal/database"
	"github.com/vuminhhieu/rent-house/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

// mailerStub records sends instead of delivering.
type sentMail struct {
	Subject    string
	Body       string
	Recipients []string
}

type mailerStub struct {
	sent []sentMail
}

func (m *mailerStub) Send(subject, body string, recipients []string) error {
	m.sent = append(m.sent, sentMail{Subject: subject, Body: body, Recipients: recipients})
	return nil
}

// identity injects an authenticated user the way the auth middleware
// would; nil leaves the request anonymous.
func identity(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set("user_id", user.ID)
			c.Set("user_role", user.Role)
		}
		c.Next()
	}
}

func newUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	user := models.User{
		Email:     email,
		Password:  "hashed",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		AvatarURL: models.DefaultAvatarURL,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func newRentalPost(t *testing.T, db *gorm.DB, owner *models.User, status string) *models.RentalPost {
	post := models.RentalPost{
		Title:         "Phong tro Q1",
		Content:       "Phong rong rai",
		City:          "HCM",
		District:      "Q1",
		Ward:          "Ben Nghe",
		DetailAddress: "123 Le Loi",
		Price:         2500,
		Area:          30,
		Status:        status,
		IsActive:      true,
		UserID:        owner.ID,
	}
	require.NoError(t, db.Create(&post).Error)
	return &post
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func init() {
	gin.SetMode(gin.TestMode)
}
