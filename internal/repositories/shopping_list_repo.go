package repositories

import (
	"belanja/internal/models"
)

// ShoppingListRepository defines the interface for shopping list data access.
type ShoppingListRepository interface {
	// GetForUser returns the lists the user is a member of, most recently
	// interacted with first.
	GetForUser(userID string) ([]models.ShoppingList, error)
	// GetByID returns a list with its member set loaded.
	GetByID(id string) (*models.ShoppingList, error)
	Create(list *models.ShoppingList) error
	Update(list *models.ShoppingList) error
	Delete(id string) error
	// Touch sets the list's last-interaction timestamp to now.
	Touch(id string) error
	AddMembers(list *models.ShoppingList, users []models.User) error
	RemoveMembers(list *models.ShoppingList, users []models.User) error
}
