package services

import (
	"fmt"

	"belanja/internal/models"
	"belanja/internal/repositories"
)

// unpurchasedPreviewLimit caps the number of unpurchased items embedded in a
// list representation.
const unpurchasedPreviewLimit = 3

// MemberSummary is the member shape embedded in list representations.
type MemberSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// UnpurchasedItem is a preview entry: just the item name.
type UnpurchasedItem struct {
	Name string `json:"name"`
}

// ShoppingListSummary is the client-facing representation of a shopping list.
// The unpurchased preview is recomputed from live data on every call, never
// cached.
type ShoppingListSummary struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	UnpurchasedItems []UnpurchasedItem `json:"unpurchased_items"`
	Members          []MemberSummary   `json:"members"`
}

// ShoppingListService handles business logic for shopping lists: membership
// authorization, list CRUD and the member set edits.
type ShoppingListService struct {
	listRepo repositories.ShoppingListRepository
	itemRepo repositories.ShoppingItemRepository
	userRepo repositories.UserRepository
}

// NewShoppingListService creates a new ShoppingListService.
func NewShoppingListService(listRepo repositories.ShoppingListRepository, itemRepo repositories.ShoppingItemRepository, userRepo repositories.UserRepository) *ShoppingListService {
	return &ShoppingListService{
		listRepo: listRepo,
		itemRepo: itemRepo,
		userRepo: userRepo,
	}
}

// GetListsForUser retrieves the lists the user belongs to, most recently
// interacted with first.
func (s *ShoppingListService) GetListsForUser(user *models.User) ([]ShoppingListSummary, error) {
	lists, err := s.listRepo.GetForUser(user.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ShoppingListSummary, 0, len(lists))
	for i := range lists {
		summary, err := s.summarize(&lists[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// CreateList creates a new shopping list with the creator as its first member.
func (s *ShoppingListService) CreateList(actor *models.User, name string) (*ShoppingListSummary, error) {
	list := &models.ShoppingList{
		Name:    name,
		Members: []models.User{*actor},
	}
	if err := s.listRepo.Create(list); err != nil {
		return nil, fmt.Errorf("failed to create shopping list: %w", err)
	}
	return s.summarize(list)
}

// GetList retrieves a single shopping list, gated by membership.
func (s *ShoppingListService) GetList(actor *models.User, listID string) (*ShoppingListSummary, error) {
	list, err := s.authorizedList(actor, listID)
	if err != nil {
		return nil, err
	}
	return s.summarize(list)
}

// UpdateList renames a shopping list, gated by membership.
func (s *ShoppingListService) UpdateList(actor *models.User, listID, name string) (*ShoppingListSummary, error) {
	list, err := s.authorizedList(actor, listID)
	if err != nil {
		return nil, err
	}
	list.Name = name
	if err := s.listRepo.Update(list); err != nil {
		return nil, fmt.Errorf("failed to update shopping list %s: %w", listID, err)
	}
	return s.summarize(list)
}

// DeleteList deletes a shopping list and all of its items, gated by membership.
func (s *ShoppingListService) DeleteList(actor *models.User, listID string) error {
	if _, err := s.authorizedList(actor, listID); err != nil {
		return err
	}
	return s.listRepo.Delete(listID)
}

// AddMembers adds the given users to the list's member set. The whole call
// fails if any id does not resolve to an existing user; re-adding an existing
// member is a no-op.
func (s *ShoppingListService) AddMembers(actor *models.User, listID string, userIDs []string) (*ShoppingListSummary, error) {
	list, users, err := s.membersEditTargets(actor, listID, userIDs)
	if err != nil {
		return nil, err
	}
	if err := s.listRepo.AddMembers(list, users); err != nil {
		return nil, err
	}
	return s.summarize(list)
}

// RemoveMembers removes the given users from the list's member set. The whole
// call fails if any id does not resolve to an existing user; removing an
// absent member is a no-op.
func (s *ShoppingListService) RemoveMembers(actor *models.User, listID string, userIDs []string) (*ShoppingListSummary, error) {
	list, users, err := s.membersEditTargets(actor, listID, userIDs)
	if err != nil {
		return nil, err
	}
	if err := s.listRepo.RemoveMembers(list, users); err != nil {
		return nil, err
	}
	return s.summarize(list)
}

// authorizedList loads a list and checks the actor may access it. A missing
// list surfaces as not-found; an existing list the actor is no member of
// surfaces as forbidden.
func (s *ShoppingListService) authorizedList(actor *models.User, listID string) (*models.ShoppingList, error) {
	list, err := s.listRepo.GetByID(listID)
	if err != nil {
		return nil, err
	}
	if !CanAccess(actor, list) {
		return nil, ErrForbidden
	}
	return list, nil
}

// membersEditTargets gates a membership edit and resolves every user id,
// failing the whole call on the first unknown id so membership is never
// partially applied.
func (s *ShoppingListService) membersEditTargets(actor *models.User, listID string, userIDs []string) (*models.ShoppingList, []models.User, error) {
	list, err := s.authorizedList(actor, listID)
	if err != nil {
		return nil, nil, err
	}

	users := make([]models.User, 0, len(userIDs))
	for _, id := range userIDs {
		user, err := s.userRepo.GetByID(id)
		if err != nil {
			return nil, nil, &ValidationError{
				Field:   "members",
				Message: fmt.Sprintf("user with ID %s does not exist", id),
			}
		}
		users = append(users, *user)
	}
	return list, users, nil
}

// summarize builds the client representation of a list, recomputing the
// unpurchased preview from the item store.
func (s *ShoppingListService) summarize(list *models.ShoppingList) (*ShoppingListSummary, error) {
	items, err := s.itemRepo.GetByList(list.ID)
	if err != nil {
		return nil, err
	}

	preview := make([]UnpurchasedItem, 0, unpurchasedPreviewLimit)
	for _, item := range items {
		if item.Purchased {
			continue
		}
		preview = append(preview, UnpurchasedItem{Name: item.Name})
		if len(preview) == unpurchasedPreviewLimit {
			break
		}
	}

	members := make([]MemberSummary, 0, len(list.Members))
	for _, member := range list.Members {
		members = append(members, MemberSummary{ID: member.ID, Username: member.Username})
	}

	return &ShoppingListSummary{
		ID:               list.ID,
		Name:             list.Name,
		UnpurchasedItems: preview,
		Members:          members,
	}, nil
}
