package models

import "gorm.io/gorm"

// ShoppingItem represents a single entry on a shopping list. Within one list
// at most one unpurchased item may carry a given name; purchased items are
// exempt from the uniqueness rule.
type ShoppingItem struct {
	ID             string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name           string `json:"name" gorm:"type:varchar(100)" validate:"required,max=100"`
	Purchased      bool   `json:"purchased"`
	ShoppingListID string `json:"-" gorm:"type:varchar(36);index"`
	gorm.Model            // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt; CreatedAt is the item's stable creation order
}
