package services_test

import (
	"errors"
	"testing"
	"time"

	"belanja/internal/models"
	"belanja/internal/repositories"
	"belanja/internal/services"

	"github.com/stretchr/testify/assert"
)

type itemServiceFixture struct {
	service  *services.ShoppingItemService
	listRepo *repositories.MockShoppingListRepository
	itemRepo *repositories.MockShoppingItemRepository
}

func newItemFixture() *itemServiceFixture {
	listRepo := repositories.NewMockShoppingListRepository()
	itemRepo := repositories.NewMockShoppingItemRepository()
	return &itemServiceFixture{
		service:  services.NewShoppingItemService(itemRepo, listRepo, nil),
		listRepo: listRepo,
		itemRepo: itemRepo,
	}
}

func (f *itemServiceFixture) createList(t *testing.T, name string, members ...models.User) *models.ShoppingList {
	t.Helper()
	list := &models.ShoppingList{Name: name, Members: members}
	assert.NoError(t, f.listRepo.Create(list))
	return list
}

func TestShoppingItemService_CreateItem_DuplicateRule(t *testing.T) {
	f := newItemFixture()
	alice := models.User{ID: "u1", Username: "alice"}
	list := f.createList(t, "Groceries", alice)

	_, err := f.service.CreateItem(&alice, list.ID, "Milk", false)
	assert.NoError(t, err)

	// Same name, same list: rejected even when the incoming item is purchased
	var valErr *services.ValidationError
	_, err = f.service.CreateItem(&alice, list.ID, "Milk", false)
	assert.True(t, errors.As(err, &valErr))

	_, err = f.service.CreateItem(&alice, list.ID, "Milk", true)
	assert.True(t, errors.As(err, &valErr))

	// Same name on a different list is fine
	other := f.createList(t, "Hardware", alice)
	_, err = f.service.CreateItem(&alice, other.ID, "Milk", false)
	assert.NoError(t, err)

	// A purchased item with the same name does not block a new one
	_, err = f.service.CreateItem(&alice, list.ID, "Honey", true)
	assert.NoError(t, err)
	_, err = f.service.CreateItem(&alice, list.ID, "Honey", false)
	assert.NoError(t, err)
}

func TestShoppingItemService_CreateItem_Authorization(t *testing.T) {
	f := newItemFixture()
	alice := models.User{ID: "u1", Username: "alice"}
	bob := models.User{ID: "u2", Username: "bob"}
	list := f.createList(t, "Groceries", alice)

	_, err := f.service.CreateItem(&bob, list.ID, "Milk", false)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = f.service.CreateItem(&alice, "no-such-list", "Milk", false)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	admin := models.User{ID: "u3", Username: "root", IsSuperuser: true}
	_, err = f.service.CreateItem(&admin, list.ID, "Milk", false)
	assert.NoError(t, err)
}

func TestShoppingItemService_SaveTouchesList(t *testing.T) {
	f := newItemFixture()
	alice := models.User{ID: "u1", Username: "alice"}
	list := f.createList(t, "Groceries", alice)

	before, err := f.listRepo.GetByID(list.ID)
	assert.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	item, err := f.service.CreateItem(&alice, list.ID, "Milk", false)
	assert.NoError(t, err)

	afterCreate, err := f.listRepo.GetByID(list.ID)
	assert.NoError(t, err)
	assert.True(t, afterCreate.LastInteraction.After(before.LastInteraction))

	time.Sleep(5 * time.Millisecond)
	purchased := true
	_, err = f.service.UpdateItem(&alice, list.ID, item.ID, nil, &purchased)
	assert.NoError(t, err)

	afterUpdate, err := f.listRepo.GetByID(list.ID)
	assert.NoError(t, err)
	assert.True(t, afterUpdate.LastInteraction.After(afterCreate.LastInteraction))
}

func TestShoppingItemService_ListItems_Ordering(t *testing.T) {
	f := newItemFixture()
	alice := models.User{ID: "u1", Username: "alice"}
	list := f.createList(t, "Groceries", alice)

	seed := []struct {
		name      string
		purchased bool
	}{
		{"Apples", true},
		{"Bananas", false},
		{"Coconut", true},
		{"Dates", false},
	}
	for _, s := range seed {
		assert.NoError(t, f.itemRepo.Create(&models.ShoppingItem{
			Name:           s.name,
			Purchased:      s.purchased,
			ShoppingListID: list.ID,
		}))
	}

	names := func(items []models.ShoppingItem) []string {
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, item.Name)
		}
		return out
	}

	// Default: unpurchased first, creation order within each group
	items, err := f.service.ListItems(&alice, list.ID, "", 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Bananas", "Dates", "Apples", "Coconut"}, names(items))

	// Purchased ascending then name ascending
	items, err = f.service.ListItems(&alice, list.ID, "purchased,name", 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Bananas", "Dates", "Apples", "Coconut"}, names(items))

	// Name descending
	items, err = f.service.ListItems(&alice, list.ID, "-name", 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Dates", "Coconut", "Bananas", "Apples"}, names(items))

	// Purchased descending then name ascending
	items, err = f.service.ListItems(&alice, list.ID, "-purchased,name", 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Apples", "Coconut", "Bananas", "Dates"}, names(items))

	// Unknown ordering key is a validation failure
	var valErr *services.ValidationError
	_, err = f.service.ListItems(&alice, list.ID, "price", 0, 0)
	assert.True(t, errors.As(err, &valErr))
	assert.Equal(t, "ordering", valErr.Field)
}

func TestShoppingItemService_ListItems_Pagination(t *testing.T) {
	f := newItemFixture()
	alice := models.User{ID: "u1", Username: "alice"}
	list := f.createList(t, "Groceries", alice)

	for _, name := range []string{"A", "B", "C", "D", "E"} {
		assert.NoError(t, f.itemRepo.Create(&models.ShoppingItem{Name: name, ShoppingListID: list.ID}))
	}

	items, err := f.service.ListItems(&alice, list.ID, "name", 2, 0)
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Name)

	items, err = f.service.ListItems(&alice, list.ID, "name", 2, 4)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "E", items[0].Name)

	items, err = f.service.ListItems(&alice, list.ID, "name", 2, 10)
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestShoppingItemService_GetUpdateDelete(t *testing.T) {
	f := newItemFixture()
	alice := models.User{ID: "u1", Username: "alice"}
	bob := models.User{ID: "u2", Username: "bob"}
	list := f.createList(t, "Groceries", alice)
	otherList := f.createList(t, "Hardware", alice)

	item, err := f.service.CreateItem(&alice, list.ID, "Milk", false)
	assert.NoError(t, err)

	got, err := f.service.GetItem(&alice, list.ID, item.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Milk", got.Name)

	// An item looked up under the wrong list is not found
	_, err = f.service.GetItem(&alice, otherList.ID, item.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// Non-members get forbidden on every item operation
	_, err = f.service.GetItem(&bob, list.ID, item.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
	_, err = f.service.UpdateItem(&bob, list.ID, item.ID, nil, nil)
	assert.ErrorIs(t, err, services.ErrForbidden)
	assert.ErrorIs(t, f.service.DeleteItem(&bob, list.ID, item.ID), services.ErrForbidden)

	// Partial update keeps untouched fields
	purchased := true
	updated, err := f.service.UpdateItem(&alice, list.ID, item.ID, nil, &purchased)
	assert.NoError(t, err)
	assert.Equal(t, "Milk", updated.Name)
	assert.True(t, updated.Purchased)

	name := "Oat milk"
	updated, err = f.service.UpdateItem(&alice, list.ID, item.ID, &name, nil)
	assert.NoError(t, err)
	assert.Equal(t, "Oat milk", updated.Name)
	assert.True(t, updated.Purchased)

	assert.NoError(t, f.service.DeleteItem(&alice, list.ID, item.ID))
	_, err = f.service.GetItem(&alice, list.ID, item.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestShoppingItemService_SearchItems(t *testing.T) {
	f := newItemFixture()
	alice := models.User{ID: "u1", Username: "alice"}
	bob := models.User{ID: "u2", Username: "bob"}

	aliceList := f.createList(t, "Groceries", alice)
	bobList := f.createList(t, "Bob's list", bob)

	_, err := f.service.CreateItem(&alice, aliceList.ID, "Skim milk", false)
	assert.NoError(t, err)
	_, err = f.service.CreateItem(&alice, aliceList.ID, "Bread", false)
	assert.NoError(t, err)
	_, err = f.service.CreateItem(&bob, bobList.ID, "Milk", false)
	assert.NoError(t, err)

	// Case-insensitive substring match, scoped to the caller's own lists
	matches, err := f.service.SearchItems(&alice, "milk")
	assert.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.Equal(t, "Skim milk", matches[0].Name)

	// Even superusers only search their own lists
	admin := models.User{ID: "u3", Username: "root", IsSuperuser: true}
	matches, err = f.service.SearchItems(&admin, "milk")
	assert.NoError(t, err)
	assert.Empty(t, matches)
}
