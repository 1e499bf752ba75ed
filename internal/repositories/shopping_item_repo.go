package repositories

import (
	"belanja/internal/models"
)

// ShoppingItemRepository defines the interface for shopping item data access.
// Items are always returned in creation order; callers apply their own
// ordering on top of it.
type ShoppingItemRepository interface {
	GetByList(listID string) ([]models.ShoppingItem, error)
	GetByLists(listIDs []string) ([]models.ShoppingItem, error)
	GetByID(id string) (*models.ShoppingItem, error)
	Create(item *models.ShoppingItem) error
	Update(item *models.ShoppingItem) error
	Delete(id string) error
}
