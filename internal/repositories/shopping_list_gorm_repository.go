package repositories

import (
	"fmt"
	"time"

	"belanja/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMShoppingListRepository is a GORM implementation of ShoppingListRepository.
type GORMShoppingListRepository struct {
	db *gorm.DB
}

// NewGORMShoppingListRepository creates a new instance of GORMShoppingListRepository.
func NewGORMShoppingListRepository(db *gorm.DB) *GORMShoppingListRepository {
	return &GORMShoppingListRepository{
		db: db,
	}
}

// GetForUser retrieves the lists the user belongs to, most recently
// interacted with first.
func (r *GORMShoppingListRepository) GetForUser(userID string) ([]models.ShoppingList, error) {
	var lists []models.ShoppingList
	err := r.db.Preload("Members").
		Joins("JOIN shopping_list_members ON shopping_list_members.shopping_list_id = shopping_lists.id").
		Where("shopping_list_members.user_id = ?", userID).
		Order("shopping_lists.last_interaction DESC, shopping_lists.created_at DESC").
		Find(&lists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping lists for user %s: %w", userID, err)
	}
	return lists, nil
}

// GetByID retrieves a single shopping list with its members.
func (r *GORMShoppingListRepository) GetByID(id string) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if err := r.db.Preload("Members").First(&list, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("shopping list with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get shopping list by ID %s: %w", id, err)
	}
	return &list, nil
}

// Create creates a new shopping list in the database.
func (r *GORMShoppingListRepository) Create(list *models.ShoppingList) error {
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	if list.LastInteraction.IsZero() {
		list.LastInteraction = time.Now()
	}
	if err := r.db.Create(list).Error; err != nil {
		return fmt.Errorf("failed to create shopping list: %w", err)
	}
	return nil
}

// Update updates an existing shopping list in the database. Members are
// managed through AddMembers/RemoveMembers, not here.
func (r *GORMShoppingListRepository) Update(list *models.ShoppingList) error {
	res := r.db.Omit("Members", "Items").Save(list)
	if res.Error != nil {
		return fmt.Errorf("failed to update shopping list: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("shopping list with ID %s: %w", list.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a shopping list and all of its items from the database.
func (r *GORMShoppingListRepository) Delete(id string) error {
	if err := r.db.Where("shopping_list_id = ?", id).Delete(&models.ShoppingItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete items of shopping list %s: %w", id, err)
	}
	res := r.db.Delete(&models.ShoppingList{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete shopping list: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("shopping list with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// Touch updates the list's last-interaction timestamp to the current time.
func (r *GORMShoppingListRepository) Touch(id string) error {
	res := r.db.Model(&models.ShoppingList{}).Where("id = ?", id).Update("last_interaction", time.Now())
	if res.Error != nil {
		return fmt.Errorf("failed to touch shopping list %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("shopping list with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// AddMembers adds users to the list's member set. Re-adding an existing
// member is a no-op.
func (r *GORMShoppingListRepository) AddMembers(list *models.ShoppingList, users []models.User) error {
	if err := r.db.Model(list).Association("Members").Append(toAssociation(users)...); err != nil {
		return fmt.Errorf("failed to add members to shopping list %s: %w", list.ID, err)
	}
	return r.reloadMembers(list)
}

// RemoveMembers removes users from the list's member set. Removing an absent
// member is a no-op.
func (r *GORMShoppingListRepository) RemoveMembers(list *models.ShoppingList, users []models.User) error {
	if err := r.db.Model(list).Association("Members").Delete(toAssociation(users)...); err != nil {
		return fmt.Errorf("failed to remove members from shopping list %s: %w", list.ID, err)
	}
	return r.reloadMembers(list)
}

// reloadMembers refreshes the in-memory member set from the join table.
// Append pushes a re-added user onto the slice even though the join table is
// unchanged, so the stored set is the source of truth for responses.
func (r *GORMShoppingListRepository) reloadMembers(list *models.ShoppingList) error {
	list.Members = nil
	if err := r.db.Model(list).Association("Members").Find(&list.Members); err != nil {
		return fmt.Errorf("failed to reload members of shopping list %s: %w", list.ID, err)
	}
	return nil
}

func toAssociation(users []models.User) []interface{} {
	vals := make([]interface{}, len(users))
	for i := range users {
		vals[i] = &users[i]
	}
	return vals
}
