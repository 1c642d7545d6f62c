package permissions

import "github.com/vuminhhieu/rent-house/backend/internal/models"

// Action names every role-gated operation. Ownership checks (a landlord
// editing only their own posts, a user deleting only their own comments)
// stay with the handlers, where the target object is loaded.
type Action string

const (
	ActionCreateRentalPost   Action = "rental_post.create"
	ActionUpdateRentalPost   Action = "rental_post.update"
	ActionDeleteRentalPost   Action = "rental_post.delete"
	ActionChangePostStatus   Action = "rental_post.change_status"
	ActionSavePost           Action = "rental_post.save"
	ActionUnsavePost         Action = "rental_post.unsave"
	ActionListSavedPosts     Action = "rental_post.saved_posts"
	ActionCreateFindRoomPost Action = "find_room_post.create"
	ActionUpdateFindRoomPost Action = "find_room_post.update"
	ActionDeleteFindRoomPost Action = "find_room_post.delete"
	ActionListMyFindRoom     Action = "find_room_post.mine"
	ActionFollow             Action = "follow.create"
	ActionUnfollow           Action = "follow.delete"
	ActionCountFollowers     Action = "follow.count_follower"
	ActionCountUsers         Action = "user.count"
	ActionCreateAdmin        Action = "user.create_admin"
)

// actionRoles is the static permission table: which roles may perform
// each gated action. Actions absent from the table are open to any
// authenticated user.
var actionRoles = map[Action][]string{
	ActionCreateRentalPost:   {models.RoleLandlord},
	ActionUpdateRentalPost:   {models.RoleLandlord},
	ActionDeleteRentalPost:   {models.RoleLandlord},
	ActionChangePostStatus:   {models.RoleAdmin},
	ActionSavePost:           {models.RoleTenant},
	ActionUnsavePost:         {models.RoleTenant},
	ActionListSavedPosts:     {models.RoleTenant},
	ActionCreateFindRoomPost: {models.RoleTenant},
	ActionUpdateFindRoomPost: {models.RoleTenant},
	ActionDeleteFindRoomPost: {models.RoleTenant},
	ActionListMyFindRoom:     {models.RoleTenant},
	ActionFollow:             {models.RoleTenant},
	ActionUnfollow:           {models.RoleTenant},
	ActionCountFollowers:     {models.RoleLandlord},
	ActionCountUsers:         {models.RoleAdmin},
	ActionCreateAdmin:        {models.RoleAdmin},
}

// Allowed reports whether a user with the given role may perform action.
// An empty role (anonymous viewer) is never allowed a gated action.
func Allowed(action Action, role string) bool {
	allowed, gated := actionRoles[action]
	if !gated {
		return role != ""
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
