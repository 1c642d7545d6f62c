package comments

import (
	"errors"

	"gorm.io/gorm"

	"github.com/vuminhhieu/rent-house/backend/internal/models"
)

var ErrUnknownTarget = errors.New("content type not found")

// targetExists maps a content-type tag to a lookup that checks the
// referenced post exists. New commentable types register here.
var targetExists = map[string]func(db *gorm.DB, id int) (bool, error){
	models.TargetRentalPost: func(db *gorm.DB, id int) (bool, error) {
		var n int64
		err := db.Model(&models.RentalPost{}).Where("id = ?", id).Count(&n).Error
		return n > 0, err
	},
	models.TargetFindRoomPost: func(db *gorm.DB, id int) (bool, error) {
		var n int64
		err := db.Model(&models.FindRoomPost{}).Where("id = ?", id).Count(&n).Error
		return n > 0, err
	},
}

// ResolveTarget verifies the (contentType, objectID) pair names an
// existing post. Returns ErrUnknownTarget for an unregistered tag and
// gorm.ErrRecordNotFound for a missing instance.
func ResolveTarget(db *gorm.DB, contentType string, objectID int) error {
	exists, ok := targetExists[contentType]
	if !ok {
		return ErrUnknownTarget
	}
	found, err := exists(db, objectID)
	if err != nil {
		return err
	}
	if !found {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ForTargets batch-fetches the comments of one page of posts in a single
// query and groups them by target id, so list handlers attach comments
// without a query per post.
func ForTargets(db *gorm.DB, contentType string, objectIDs []int) (map[int][]models.Comment, error) {
	grouped := make(map[int][]models.Comment, len(objectIDs))
	if len(objectIDs) == 0 {
		return grouped, nil
	}

	var all []models.Comment
	err := db.Preload("User").
		Where("content_type = ? AND object_id IN ?", contentType, objectIDs).
		Order("created_at desc").
		Find(&all).Error
	if err != nil {
		return nil, err
	}

	for _, comment := range all {
		grouped[comment.ObjectID] = append(grouped[comment.ObjectID], comment)
	}
	return grouped, nil
}
