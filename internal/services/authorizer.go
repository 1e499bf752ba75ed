package services

import "belanja/internal/models"

// CanAccess reports whether the user may read or write the given shopping
// list. Superusers always pass; everyone else must be a member. Item access
// delegates to the item's owning list, so this is the single authorization
// gate for lists, items and membership edits.
func CanAccess(user *models.User, list *models.ShoppingList) bool {
	if user.IsSuperuser {
		return true
	}
	for _, member := range list.Members {
		if member.ID == user.ID {
			return true
		}
	}
	return false
}
