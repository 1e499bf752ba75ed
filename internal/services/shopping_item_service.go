package services

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"belanja/internal/models"
	"belanja/internal/repositories"
	"belanja/pkg/rabbitmq"
)

// Pagination bounds for item listings.
const (
	defaultItemPageSize = 20
	maxItemPageSize     = 100
)

// ShoppingItemService handles business logic for shopping items: the
// duplicate-name rule, item CRUD, ordering, search and the last-interaction
// side effect on the owning list.
type ShoppingItemService struct {
	itemRepo repositories.ShoppingItemRepository
	listRepo repositories.ShoppingListRepository
	mqClient *rabbitmq.Client // RabbitMQ client for activity events, may be nil
}

// NewShoppingItemService creates a new ShoppingItemService.
func NewShoppingItemService(itemRepo repositories.ShoppingItemRepository, listRepo repositories.ShoppingListRepository, mqClient *rabbitmq.Client) *ShoppingItemService {
	return &ShoppingItemService{
		itemRepo: itemRepo,
		listRepo: listRepo,
		mqClient: mqClient,
	}
}

// CreateItem adds an item to a list. The call is rejected when the list
// already holds an unpurchased item with the same name, regardless of the
// incoming purchased flag. The same name is fine on other lists.
func (s *ShoppingItemService) CreateItem(actor *models.User, listID, name string, purchased bool) (*models.ShoppingItem, error) {
	if _, err := s.authorizedList(actor, listID); err != nil {
		return nil, err
	}

	existing, err := s.itemRepo.GetByList(listID)
	if err != nil {
		return nil, err
	}
	for _, item := range existing {
		if item.Name == name && !item.Purchased {
			return nil, &ValidationError{
				Field:   "name",
				Message: "there's already this item on the list",
			}
		}
	}

	item := &models.ShoppingItem{
		Name:           name,
		Purchased:      purchased,
		ShoppingListID: listID,
	}
	if err := s.itemRepo.Create(item); err != nil {
		return nil, fmt.Errorf("failed to create shopping item: %w", err)
	}

	s.recordInteraction(listID, item.ID, "item.created")
	return item, nil
}

// ListItems returns the items of a list sorted by the requested ordering and
// paginated by limit/offset. The ordering is a comma-separated priority list
// over the keys "name" and "purchased", each optionally prefixed with "-" for
// descending; it defaults to unpurchased items first.
func (s *ShoppingItemService) ListItems(actor *models.User, listID, ordering string, limit, offset int) ([]models.ShoppingItem, error) {
	if _, err := s.authorizedList(actor, listID); err != nil {
		return nil, err
	}

	keys, err := parseOrdering(ordering)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.GetByList(listID)
	if err != nil {
		return nil, err
	}
	sortItems(items, keys)

	return paginate(items, limit, offset), nil
}

// GetItem retrieves a single item under a list, gated by membership of the
// owning list.
func (s *ShoppingItemService) GetItem(actor *models.User, listID, itemID string) (*models.ShoppingItem, error) {
	return s.authorizedItem(actor, listID, itemID)
}

// UpdateItem applies a partial update to an item. Nil fields are left
// untouched. Any change bumps the owning list's last-interaction timestamp.
func (s *ShoppingItemService) UpdateItem(actor *models.User, listID, itemID string, name *string, purchased *bool) (*models.ShoppingItem, error) {
	item, err := s.authorizedItem(actor, listID, itemID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		item.Name = *name
	}
	if purchased != nil {
		item.Purchased = *purchased
	}
	if err := s.itemRepo.Update(item); err != nil {
		return nil, fmt.Errorf("failed to update shopping item %s: %w", itemID, err)
	}

	s.recordInteraction(listID, item.ID, "item.updated")
	return item, nil
}

// DeleteItem removes an item, gated by membership of the owning list.
func (s *ShoppingItemService) DeleteItem(actor *models.User, listID, itemID string) error {
	if _, err := s.authorizedItem(actor, listID, itemID); err != nil {
		return err
	}
	return s.itemRepo.Delete(itemID)
}

// SearchItems returns the caller's items whose name contains the query,
// case-insensitively. The scope is always the caller's own lists; superusers
// get no wider view here.
func (s *ShoppingItemService) SearchItems(actor *models.User, query string) ([]models.ShoppingItem, error) {
	lists, err := s.listRepo.GetForUser(actor.ID)
	if err != nil {
		return nil, err
	}
	listIDs := make([]string, 0, len(lists))
	for _, list := range lists {
		listIDs = append(listIDs, list.ID)
	}

	items, err := s.itemRepo.GetByLists(listIDs)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := make([]models.ShoppingItem, 0)
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

// authorizedList loads a list and checks membership, mirroring the list
// service's gate.
func (s *ShoppingItemService) authorizedList(actor *models.User, listID string) (*models.ShoppingList, error) {
	list, err := s.listRepo.GetByID(listID)
	if err != nil {
		return nil, err
	}
	if !CanAccess(actor, list) {
		return nil, ErrForbidden
	}
	return list, nil
}

// authorizedItem loads an item under the given list and gates access through
// the owning list's member set. An item id that exists under a different list
// is treated as not found.
func (s *ShoppingItemService) authorizedItem(actor *models.User, listID, itemID string) (*models.ShoppingItem, error) {
	item, err := s.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item.ShoppingListID != listID {
		return nil, fmt.Errorf("shopping item with ID %s: %w", itemID, repositories.ErrNotFound)
	}
	if _, err := s.authorizedList(actor, item.ShoppingListID); err != nil {
		return nil, err
	}
	return item, nil
}

// recordInteraction bumps the owning list's last-interaction timestamp and
// publishes a best-effort activity event. Event publishing never fails the
// request.
func (s *ShoppingItemService) recordInteraction(listID, itemID, action string) {
	if err := s.listRepo.Touch(listID); err != nil {
		log.Printf("Warning: failed to record interaction with shopping list %s: %v", listID, err)
	}

	if s.mqClient == nil {
		return
	}
	event := rabbitmq.ActivityEvent{
		ListID: listID,
		ItemID: itemID,
		Action: action,
	}
	if err := s.mqClient.PublishActivity(event); err != nil {
		log.Printf("Warning: failed to publish activity event for list %s: %v", listID, err)
	}
}

// orderKey is one parsed ordering criterion.
type orderKey struct {
	field string
	desc  bool
}

// parseOrdering turns an ordering expression like "purchased,-name" into a
// priority-ordered key list. An empty expression defaults to unpurchased
// items first.
func parseOrdering(ordering string) ([]orderKey, error) {
	if strings.TrimSpace(ordering) == "" {
		return []orderKey{{field: "purchased"}}, nil
	}

	parts := strings.Split(ordering, ",")
	keys := make([]orderKey, 0, len(parts))
	for _, part := range parts {
		key := orderKey{field: strings.TrimSpace(part)}
		if strings.HasPrefix(key.field, "-") {
			key.desc = true
			key.field = key.field[1:]
		}
		if key.field != "name" && key.field != "purchased" {
			return nil, &ValidationError{
				Field:   "ordering",
				Message: fmt.Sprintf("unsupported ordering key '%s'", key.field),
			}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// sortItems stably sorts items by the given keys, so ties on earlier keys are
// broken by later ones and ultimately by creation order.
func sortItems(items []models.ShoppingItem, keys []orderKey) {
	sort.SliceStable(items, func(i, j int) bool {
		for _, key := range keys {
			var cmp int
			switch key.field {
			case "name":
				cmp = strings.Compare(items[i].Name, items[j].Name)
			case "purchased":
				cmp = compareBool(items[i].Purchased, items[j].Purchased)
			}
			if cmp == 0 {
				continue
			}
			if key.desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case b: // false sorts before true
		return -1
	default:
		return 1
	}
}

// paginate applies limit/offset with the service's defaults and bounds.
func paginate(items []models.ShoppingItem, limit, offset int) []models.ShoppingItem {
	if limit <= 0 {
		limit = defaultItemPageSize
	}
	if limit > maxItemPageSize {
		limit = maxItemPageSize
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []models.ShoppingItem{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
