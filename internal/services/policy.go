package services

import (
	"quillpress/internal/models"
)

// Action is something an actor asks to do
type Action string

const (
	ActionAdminDashboard  Action = "admin_dashboard"
	ActionAuthorDashboard Action = "author_dashboard"
	ActionCreatePost      Action = "create_post"
	ActionEditPost        Action = "edit_post"
	ActionReadPost        Action = "read_post"
	ActionModeratePost    Action = "moderate_post"
	ActionManageTaxonomy  Action = "manage_taxonomy"
)

// roleGrants lists the roles allowed per action regardless of ownership
var roleGrants = map[Action][]models.Role{
	ActionAdminDashboard:  {models.RoleAdmin},
	ActionAuthorDashboard: {models.RoleAuthor},
	ActionCreatePost:      {models.RoleAuthor},
	ActionEditPost:        {models.RoleAdmin},
	ActionReadPost:        {models.RoleAdmin},
	ActionModeratePost:    {models.RoleAdmin},
	ActionManageTaxonomy:  {models.RoleAdmin},
}

// ownerGrants marks actions the owner of the target post may perform
var ownerGrants = map[Action]bool{
	ActionEditPost: true,
	ActionReadPost: true,
}

// Authorize decides whether actor (nil when anonymous) may perform action on post.
// post may be nil for actions that do not target one.
func Authorize(actor *models.User, action Action, post *models.Post) error {
	if action == ActionReadPost && post != nil && post.IsPublished() {
		return nil
	}

	if actor == nil {
		if action == ActionReadPost {
			return ErrForbidden
		}
		return ErrUnauthenticated
	}

	for _, role := range roleGrants[action] {
		if actor.Role == role {
			return nil
		}
	}

	if ownerGrants[action] && post != nil && post.UserID == actor.ID {
		return nil
	}

	return ErrForbidden
}
