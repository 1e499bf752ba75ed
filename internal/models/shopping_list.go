package models

import (
	"time"

	"gorm.io/gorm"
)

// ShoppingList represents a shared shopping list. Every member may read and
// write the list and its items.
type ShoppingList struct {
	ID              string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name            string         `json:"name" gorm:"type:varchar(200)" validate:"required,max=200"`
	Members         []User         `json:"members" gorm:"many2many:shopping_list_members"`
	Items           []ShoppingItem `json:"-" gorm:"foreignKey:ShoppingListID;constraint:OnDelete:CASCADE"`
	LastInteraction time.Time      `json:"last_interaction"` // Bumped whenever a contained item is saved
	gorm.Model                     // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
