package auth

import "github.com/davidreact/tenanthub1/models"

// Actions consulted through CanPerform. Every mutating handler goes through
// this single policy function instead of re-checking roles inline.
const (
	ActionManage     = "manage"      // admin-only CRUD on any entity
	ActionReadOwn    = "read_own"    // read an entity the user owns
	ActionWriteOwn   = "write_own"   // mutate an entity the user owns
	ActionReviewWork = "review_work" // approve/reject tenant submissions
)

// CanPerform reports whether user may perform action. ownerID is the ID of
// the user owning the target entity; it is ignored for admin-only actions.
func CanPerform(user models.User, action, ownerID string) bool {
	if !user.IsActive {
		return false
	}

	switch action {
	case ActionManage, ActionReviewWork:
		return user.IsAdmin()
	case ActionReadOwn, ActionWriteOwn:
		if user.IsAdmin() {
			return true
		}
		return ownerID != "" && ownerID == user.ID
	default:
		return false
	}
}
