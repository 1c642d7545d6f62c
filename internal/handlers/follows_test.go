package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vuminhhieu/rent-house/backend/internal/models"
)

func followRouter(db *gorm.DB, mail *mailerStub, viewer *models.User) *gin.Engine {
	h := NewFollowHandler(db, mail)

	r := gin.New()
	r.POST("/follow", identity(viewer), h.Follow)
	r.DELETE("/follow", identity(viewer), h.Unfollow)
	r.GET("/follow", identity(viewer), h.Following)
	r.GET("/follow/count_follower", identity(viewer), h.CountFollowers)
	return r
}

func TestFollowCreatesEdgeAndNotifiesLandlord(t *testing.T) {
	db := setupTestDB(t)
	tenant := newUser(t, db, "tenant@rent.vn", models.RoleTenant)
	landlord := newUser(t, db, "landlord@rent.vn", models.RoleLandlord)

	mail := &mailerStub{}
	router := followRouter(db, mail, tenant)
	w := doJSON(t, router, http.MethodPost, "/follow", gin.H{"followed": landlord.ID})

	require.Equal(t, http.StatusCreated, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", tenant.ID, landlord.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, []string{landlord.Email}, mail.sent[0].Recipients)
	assert.Contains(t, mail.sent[0].Body, tenant.Email)
}

func TestFollowRejectsNonLandlordTarget(t *testing.T) {
	db := setupTestDB(t)
	tenant := newUser(t, db, "tenant@rent.vn", models.RoleTenant)
	other := newUser(t, db, "other@rent.vn", models.RoleTenant)

	mail := &mailerStub{}
	router := followRouter(db, mail, tenant)
	w := doJSON(t, router, http.MethodPost, "/follow", gin.H{"followed": other.ID})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	decodeBody(t, w, &body)
	assert.Equal(t, "You can only follow (Chu_Nha_Tro).", body["detail"])
	assert.Empty(t, mail.sent)
}

func TestFollowRequiresTenant(t *testing.T) {
	db := setupTestDB(t)
	landlord := newUser(t, db, "landlord@rent.vn", models.RoleLandlord)
	target := newUser(t, db, "target@rent.vn", models.RoleLandlord)

	router := followRouter(db, &mailerStub{}, landlord)
	w := doJSON(t, router, http.MethodPost, "/follow", gin.H{"followed": target.ID})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFollowMissingUser(t *testing.T) {
	db := setupTestDB(t)
	tenant := newUser(t, db, "tenant@rent.vn", models.RoleTenant)

	router := followRouter(db, &mailerStub{}, tenant)
	w := doJSON(t, router, http.MethodPost, "/follow", gin.H{"followed": 9999})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFollowDuplicateLeavesSingleEdge(t *testing.T) {
	db := setupTestDB(t)
	tenant := newUser(t, db, "tenant@rent.vn", models.RoleTenant)
	landlord := newUser(t, db, "landlord@rent.vn", models.RoleLandlord)

	mail := &mailerStub{}
	router := followRouter(db, mail, tenant)

	w := doJSON(t, router, http.MethodPost, "/follow", gin.H{"followed": landlord.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/follow", gin.H{"followed": landlord.ID})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	decodeBody(t, w, &body)
	assert.Equal(t, "Follow already exists.", body["followed"])

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	// The duplicate attempt must not fire a second mail
	assert.Len(t, mail.sent, 1)
}

func TestUnfollowRemovesEdge(t *testing.T) {
	db := setupTestDB(t)
	tenant := newUser(t, db, "tenant@rent.vn", models.RoleTenant)
	landlord := newUser(t, db, "landlord@rent.vn", models.RoleLandlord)
	require.NoError(t, db.Create(&models.Follow{FollowerID: tenant.ID, FollowedID: landlord.ID}).Error)

	router := followRouter(db, &mailerStub{}, tenant)
	w := doJSON(t, router, http.MethodDelete, "/follow", gin.H{"followed": landlord.ID})

	require.Equal(t, http.StatusOK, w.Code)
	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUnfollowWithoutEdge(t *testing.T) {
	db := setupTestDB(t)
	tenant := newUser(t, db, "tenant@rent.vn", models.RoleTenant)
	landlord := newUser(t, db, "landlord@rent.vn", models.RoleLandlord)

	router := followRouter(db, &mailerStub{}, tenant)
	w := doJSON(t, router, http.MethodDelete, "/follow", gin.H{"followed": landlord.ID})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	decodeBody(t, w, &body)
	assert.Equal(t, "You are not following this user.", body["detail"])
}

func TestFollowingListsFollowedUsers(t *testing.T) {
	db := setupTestDB(t)
	tenant := newUser(t, db, "tenant@rent.vn", models.RoleTenant)
	first := newUser(t, db, "first@rent.vn", models.RoleLandlord)
	second := newUser(t, db, "second@rent.vn", models.RoleLandlord)
	require.NoError(t, db.Create(&models.Follow{FollowerID: tenant.ID, FollowedID: first.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: tenant.ID, FollowedID: second.ID}).Error)

	router := followRouter(db, &mailerStub{}, tenant)
	w := doJSON(t, router, http.MethodGet, "/follow", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var following []models.User
	decodeBody(t, w, &following)
	emails := make([]string, len(following))
	for i, u := range following {
		emails[i] = u.Email
	}
	assert.ElementsMatch(t, []string{first.Email, second.Email}, emails)
}

func TestCountFollowers(t *testing.T) {
	db := setupTestDB(t)
	landlord := newUser(t, db, "landlord@rent.vn", models.RoleLandlord)
	a := newUser(t, db, "a@rent.vn", models.RoleTenant)
	b := newUser(t, db, "b@rent.vn", models.RoleTenant)
	require.NoError(t, db.Create(&models.Follow{FollowerID: a.ID, FollowedID: landlord.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: b.ID, FollowedID: landlord.ID}).Error)

	router := followRouter(db, &mailerStub{}, landlord)
	w := doJSON(t, router, http.MethodGet, "/follow/count_follower", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]int64
	decodeBody(t, w, &body)
	assert.Equal(t, int64(2), body["total_follower"])
}

func TestCountFollowersRequiresLandlord(t *testing.T) {
	db := setupTestDB(t)
	tenant := newUser(t, db, "tenant@rent.vn", models.RoleTenant)

	router := followRouter(db, &mailerStub{}, tenant)
	w := doJSON(t, router, http.MethodGet, "/follow/count_follower", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
