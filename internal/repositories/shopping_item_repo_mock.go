package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"belanja/internal/models"

	"github.com/google/uuid"
)

// MockShoppingItemRepository is an in-memory implementation of ShoppingItemRepository.
type MockShoppingItemRepository struct {
	items map[string]models.ShoppingItem
	seq   int // preserves creation order even when timestamps collide
	order map[string]int
	mu    sync.RWMutex
}

// NewMockShoppingItemRepository creates a new instance of MockShoppingItemRepository.
func NewMockShoppingItemRepository() *MockShoppingItemRepository {
	return &MockShoppingItemRepository{
		items: make(map[string]models.ShoppingItem),
		order: make(map[string]int),
	}
}

// GetByList returns all items of a list in creation order.
func (r *MockShoppingItemRepository) GetByList(listID string) ([]models.ShoppingItem, error) {
	return r.GetByLists([]string{listID})
}

// GetByLists returns all items belonging to any of the given lists in creation order.
func (r *MockShoppingItemRepository) GetByLists(listIDs []string) ([]models.ShoppingItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(listIDs))
	for _, id := range listIDs {
		wanted[id] = true
	}

	result := make([]models.ShoppingItem, 0)
	for _, item := range r.items {
		if wanted[item.ShoppingListID] {
			result = append(result, item)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return r.order[result[i].ID] < r.order[result[j].ID]
	})
	return result, nil
}

// GetByID returns a shopping item by its ID.
func (r *MockShoppingItemRepository) GetByID(id string) (*models.ShoppingItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("shopping item with ID %s: %w", id, ErrNotFound)
	}
	return &item, nil
}

// Create adds a new shopping item.
func (r *MockShoppingItemRepository) Create(item *models.ShoppingItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	r.items[item.ID] = *item
	r.order[item.ID] = r.seq
	r.seq++
	return nil
}

// Update modifies an existing shopping item.
func (r *MockShoppingItemRepository) Update(item *models.ShoppingItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[item.ID]
	if !ok {
		return fmt.Errorf("shopping item with ID %s: %w", item.ID, ErrNotFound)
	}
	item.UpdatedAt = time.Now()
	r.items[item.ID] = *item
	return nil
}

// Delete removes a shopping item by its ID.
func (r *MockShoppingItemRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[id]
	if !ok {
		return fmt.Errorf("shopping item with ID %s: %w", id, ErrNotFound)
	}
	delete(r.items, id)
	delete(r.order, id)
	return nil
}
