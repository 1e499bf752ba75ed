package repositories

import (
	"fmt"
	"strings"

	"belanja/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMShoppingItemRepository is a GORM implementation of ShoppingItemRepository.
type GORMShoppingItemRepository struct {
	db *gorm.DB
}

// NewGORMShoppingItemRepository creates a new instance of GORMShoppingItemRepository.
func NewGORMShoppingItemRepository(db *gorm.DB) *GORMShoppingItemRepository {
	return &GORMShoppingItemRepository{
		db: db,
	}
}

// GetByList retrieves all items of a shopping list in creation order.
func (r *GORMShoppingItemRepository) GetByList(listID string) ([]models.ShoppingItem, error) {
	var items []models.ShoppingItem
	if err := r.db.Where("shopping_list_id = ?", listID).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get items for list %s: %w", listID, err)
	}
	return items, nil
}

// GetByLists retrieves all items belonging to any of the given lists in creation order.
func (r *GORMShoppingItemRepository) GetByLists(listIDs []string) ([]models.ShoppingItem, error) {
	if len(listIDs) == 0 {
		return []models.ShoppingItem{}, nil
	}
	var items []models.ShoppingItem
	if err := r.db.Where("shopping_list_id IN ?", listIDs).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get items for lists %s: %w", strings.Join(listIDs, ","), err)
	}
	return items, nil
}

// GetByID retrieves a single shopping item by its ID from the database.
func (r *GORMShoppingItemRepository) GetByID(id string) (*models.ShoppingItem, error) {
	var item models.ShoppingItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("shopping item with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get shopping item by ID %s: %w", id, err)
	}
	return &item, nil
}

// Create creates a new shopping item in the database.
func (r *GORMShoppingItemRepository) Create(item *models.ShoppingItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create shopping item: %w", err)
	}
	return nil
}

// Update updates an existing shopping item in the database.
func (r *GORMShoppingItemRepository) Update(item *models.ShoppingItem) error {
	res := r.db.Save(item) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update shopping item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("shopping item with ID %s: %w", item.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a shopping item by its ID from the database.
func (r *GORMShoppingItemRepository) Delete(id string) error {
	res := r.db.Delete(&models.ShoppingItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete shopping item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("shopping item with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
