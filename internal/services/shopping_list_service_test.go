package services_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"belanja/internal/models"
	"belanja/internal/repositories"
	"belanja/internal/services"

	"github.com/stretchr/testify/assert"
)

func newListService(userRepo repositories.UserRepository) (*services.ShoppingListService, *repositories.MockShoppingListRepository, *repositories.MockShoppingItemRepository) {
	listRepo := repositories.NewMockShoppingListRepository()
	itemRepo := repositories.NewMockShoppingItemRepository()
	return services.NewShoppingListService(listRepo, itemRepo, userRepo), listRepo, itemRepo
}

func TestShoppingListService_CanAccess(t *testing.T) {
	member := &models.User{ID: "u1", Username: "alice"}
	stranger := &models.User{ID: "u2", Username: "bob"}
	admin := &models.User{ID: "u3", Username: "root", IsSuperuser: true}

	list := &models.ShoppingList{ID: "l1", Name: "Groceries", Members: []models.User{*member}}

	assert.True(t, services.CanAccess(member, list))
	assert.False(t, services.CanAccess(stranger, list))
	assert.True(t, services.CanAccess(admin, list))
}

func TestShoppingListService_GetList_ForbiddenVsNotFound(t *testing.T) {
	service, _, _ := newListService(nil)

	member := &models.User{ID: "u1", Username: "alice"}
	stranger := &models.User{ID: "u2", Username: "bob"}

	summary, err := service.CreateList(member, "Groceries")
	assert.NoError(t, err)

	// Member reads the list
	got, err := service.GetList(member, summary.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Groceries", got.Name)

	// Non-member gets forbidden, not not-found
	_, err = service.GetList(stranger, summary.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// Unknown list id is not-found
	_, err = service.GetList(member, "no-such-list")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// Superusers bypass the membership gate
	admin := &models.User{ID: "u3", Username: "root", IsSuperuser: true}
	_, err = service.GetList(admin, summary.ID)
	assert.NoError(t, err)
}

func TestShoppingListService_CreateList_CreatorBecomesMember(t *testing.T) {
	service, _, _ := newListService(nil)

	creator := &models.User{ID: "u1", Username: "alice"}
	summary, err := service.CreateList(creator, "Groceries")
	assert.NoError(t, err)
	assert.NotEmpty(t, summary.ID)
	assert.Len(t, summary.Members, 1)
	assert.Equal(t, "alice", summary.Members[0].Username)
	assert.Empty(t, summary.UnpurchasedItems)
}

func TestShoppingListService_UnpurchasedPreview(t *testing.T) {
	service, _, itemRepo := newListService(nil)

	creator := &models.User{ID: "u1", Username: "alice"}
	summary, err := service.CreateList(creator, "Groceries")
	assert.NoError(t, err)

	names := []string{"Eggs", "Chocolate", "Milk", "Mango"}
	for _, name := range names {
		err := itemRepo.Create(&models.ShoppingItem{Name: name, ShoppingListID: summary.ID})
		assert.NoError(t, err)
	}
	// A purchased item never shows up in the preview
	err = itemRepo.Create(&models.ShoppingItem{Name: "Bread", Purchased: true, ShoppingListID: summary.ID})
	assert.NoError(t, err)

	got, err := service.GetList(creator, summary.ID)
	assert.NoError(t, err)
	assert.Len(t, got.UnpurchasedItems, 3)
	assert.Equal(t, []services.UnpurchasedItem{{Name: "Eggs"}, {Name: "Chocolate"}, {Name: "Milk"}}, got.UnpurchasedItems)
}

func TestShoppingListService_GetListsForUser_OrderedByRecency(t *testing.T) {
	service, listRepo, _ := newListService(nil)

	user := &models.User{ID: "u1", Username: "alice"}
	older, err := service.CreateList(user, "Older")
	assert.NoError(t, err)
	_, err = service.CreateList(user, "Newer")
	assert.NoError(t, err)

	// Force distinct interaction times, newest on "Older" last
	stored, err := listRepo.GetByID(older.ID)
	assert.NoError(t, err)
	stored.LastInteraction = time.Now().Add(time.Hour)
	assert.NoError(t, listRepo.Update(stored))

	summaries, err := service.GetListsForUser(user)
	assert.NoError(t, err)
	assert.Len(t, summaries, 2)
	assert.Equal(t, "Older", summaries[0].Name)
	assert.Equal(t, "Newer", summaries[1].Name)

	// Lists the user does not belong to never appear
	other := &models.User{ID: "u2", Username: "bob"}
	otherSummaries, err := service.GetListsForUser(other)
	assert.NoError(t, err)
	assert.Empty(t, otherSummaries)
}

func TestShoppingListService_AddMembers(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	service, _, _ := newListService(mockUserRepo)

	creator := &models.User{ID: "u1", Username: "alice"}
	bob := models.User{ID: "u2", Username: "bob"}

	summary, err := service.CreateList(creator, "Groceries")
	assert.NoError(t, err)

	// Unknown id fails the whole call and leaves membership unchanged
	mockUserRepo.On("GetByID", "u2").Return(&bob, nil).Once()
	mockUserRepo.On("GetByID", "ghost").Return(nil, fmt.Errorf("user with ID ghost: %w", repositories.ErrNotFound)).Once()

	_, err = service.AddMembers(creator, summary.ID, []string{"u2", "ghost"})
	var valErr *services.ValidationError
	assert.True(t, errors.As(err, &valErr))
	assert.Equal(t, "members", valErr.Field)

	unchanged, err := service.GetList(creator, summary.ID)
	assert.NoError(t, err)
	assert.Len(t, unchanged.Members, 1)

	// Valid ids are added; re-adding an existing member is a no-op
	mockUserRepo.On("GetByID", "u2").Return(&bob, nil)
	updated, err := service.AddMembers(creator, summary.ID, []string{"u2"})
	assert.NoError(t, err)
	assert.Len(t, updated.Members, 2)

	again, err := service.AddMembers(creator, summary.ID, []string{"u2"})
	assert.NoError(t, err)
	assert.Len(t, again.Members, 2)

	// The new member can now read the list
	_, err = service.GetList(&bob, summary.ID)
	assert.NoError(t, err)
	mockUserRepo.AssertExpectations(t)
}

func TestShoppingListService_RemoveMembers(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	service, _, _ := newListService(mockUserRepo)

	creator := &models.User{ID: "u1", Username: "alice"}
	bob := models.User{ID: "u2", Username: "bob"}

	summary, err := service.CreateList(creator, "Groceries")
	assert.NoError(t, err)

	mockUserRepo.On("GetByID", "u2").Return(&bob, nil)
	_, err = service.AddMembers(creator, summary.ID, []string{"u2"})
	assert.NoError(t, err)

	// Removing a member revokes access
	updated, err := service.RemoveMembers(creator, summary.ID, []string{"u2"})
	assert.NoError(t, err)
	assert.Len(t, updated.Members, 1)

	_, err = service.GetList(&bob, summary.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// Removing an absent member is a no-op
	again, err := service.RemoveMembers(creator, summary.ID, []string{"u2"})
	assert.NoError(t, err)
	assert.Len(t, again.Members, 1)

	// Non-members may not edit membership
	_, err = service.RemoveMembers(&bob, summary.ID, []string{"u2"})
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestShoppingListService_DeleteList(t *testing.T) {
	service, _, _ := newListService(nil)

	creator := &models.User{ID: "u1", Username: "alice"}
	stranger := &models.User{ID: "u2", Username: "bob"}

	summary, err := service.CreateList(creator, "Groceries")
	assert.NoError(t, err)

	assert.ErrorIs(t, service.DeleteList(stranger, summary.ID), services.ErrForbidden)

	assert.NoError(t, service.DeleteList(creator, summary.ID))
	_, err = service.GetList(creator, summary.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
