package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"belanja/internal/models"

	"github.com/google/uuid"
)

// MockShoppingListRepository is an in-memory implementation of ShoppingListRepository.
type MockShoppingListRepository struct {
	lists map[string]models.ShoppingList
	mu    sync.RWMutex
}

// NewMockShoppingListRepository creates a new instance of MockShoppingListRepository.
func NewMockShoppingListRepository() *MockShoppingListRepository {
	return &MockShoppingListRepository{
		lists: make(map[string]models.ShoppingList),
	}
}

// GetForUser returns the lists the user belongs to, most recently interacted
// with first.
func (r *MockShoppingListRepository) GetForUser(userID string) ([]models.ShoppingList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.ShoppingList, 0)
	for _, list := range r.lists {
		for _, member := range list.Members {
			if member.ID == userID {
				result = append(result, list)
				break
			}
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].LastInteraction.Equal(result[j].LastInteraction) {
			return result[i].LastInteraction.After(result[j].LastInteraction)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// GetByID returns a shopping list by its ID.
func (r *MockShoppingListRepository) GetByID(id string) (*models.ShoppingList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list, ok := r.lists[id]
	if !ok {
		return nil, fmt.Errorf("shopping list with ID %s: %w", id, ErrNotFound)
	}
	return &list, nil
}

// Create adds a new shopping list.
func (r *MockShoppingListRepository) Create(list *models.ShoppingList) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	if list.LastInteraction.IsZero() {
		list.LastInteraction = time.Now()
	}
	list.CreatedAt = time.Now()
	list.UpdatedAt = time.Now()
	r.lists[list.ID] = *list
	return nil
}

// Update modifies an existing shopping list. The member set is managed through
// AddMembers/RemoveMembers, not here.
func (r *MockShoppingListRepository) Update(list *models.ShoppingList) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.lists[list.ID]
	if !ok {
		return fmt.Errorf("shopping list with ID %s: %w", list.ID, ErrNotFound)
	}
	existing.Name = list.Name
	existing.LastInteraction = list.LastInteraction
	existing.UpdatedAt = time.Now()
	r.lists[list.ID] = existing
	return nil
}

// Delete removes a shopping list by its ID.
func (r *MockShoppingListRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.lists[id]
	if !ok {
		return fmt.Errorf("shopping list with ID %s: %w", id, ErrNotFound)
	}
	delete(r.lists, id)
	return nil
}

// Touch sets the list's last-interaction timestamp to now.
func (r *MockShoppingListRepository) Touch(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.lists[id]
	if !ok {
		return fmt.Errorf("shopping list with ID %s: %w", id, ErrNotFound)
	}
	list.LastInteraction = time.Now()
	r.lists[id] = list
	return nil
}

// AddMembers adds users to the member set; re-adding a member is a no-op.
func (r *MockShoppingListRepository) AddMembers(list *models.ShoppingList, users []models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.lists[list.ID]
	if !ok {
		return fmt.Errorf("shopping list with ID %s: %w", list.ID, ErrNotFound)
	}
	for _, user := range users {
		present := false
		for _, member := range stored.Members {
			if member.ID == user.ID {
				present = true
				break
			}
		}
		if !present {
			stored.Members = append(stored.Members, user)
		}
	}
	r.lists[list.ID] = stored
	list.Members = stored.Members
	return nil
}

// RemoveMembers removes users from the member set; removing an absent member
// is a no-op.
func (r *MockShoppingListRepository) RemoveMembers(list *models.ShoppingList, users []models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.lists[list.ID]
	if !ok {
		return fmt.Errorf("shopping list with ID %s: %w", list.ID, ErrNotFound)
	}
	for _, user := range users {
		for i, member := range stored.Members {
			if member.ID == user.ID {
				stored.Members = append(stored.Members[:i], stored.Members[i+1:]...)
				break
			}
		}
	}
	r.lists[list.ID] = stored
	list.Members = stored.Members
	return nil
}
