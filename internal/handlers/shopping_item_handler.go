package handlers

import (
	"belanja/internal/models"
	"belanja/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ShoppingItemHandler handles HTTP requests for shopping items, including the
// cross-list search endpoint.
type ShoppingItemHandler struct {
	service  *services.ShoppingItemService
	validate *validator.Validate
}

// NewShoppingItemHandler creates a new ShoppingItemHandler.
func NewShoppingItemHandler(service *services.ShoppingItemService) *ShoppingItemHandler {
	return &ShoppingItemHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the shopping item routes with the Fiber app.
func (h *ShoppingItemHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/search-shopping-items", h.HandleSearchItems)

	itemRoutes := router.Group("/shopping-lists/:id/shopping-items")
	itemRoutes.Get("/", h.HandleGetItems)
	itemRoutes.Post("/", h.HandleCreateItem)
	itemRoutes.Get("/:itemID", h.HandleGetItem)
	itemRoutes.Put("/:itemID", h.HandleUpdateItem)
	itemRoutes.Patch("/:itemID", h.HandlePatchItem)
	itemRoutes.Delete("/:itemID", h.HandleDeleteItem)
}

// ItemResponse is the client-facing representation of a shopping item.
type ItemResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Purchased bool   `json:"purchased"`
}

func toItemResponse(item *models.ShoppingItem) ItemResponse {
	return ItemResponse{ID: item.ID, Name: item.Name, Purchased: item.Purchased}
}

func toItemResponses(items []models.ShoppingItem) []ItemResponse {
	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toItemResponse(&items[i]))
	}
	return responses
}

// HandleGetItems lists the items of a shopping list. Supports
// ?ordering=purchased,-name (keys "name" and "purchased", "-" for descending)
// plus ?limit= and ?offset= pagination.
func (h *ShoppingItemHandler) HandleGetItems(c *fiber.Ctx) error {
	items, err := h.service.ListItems(
		actingUser(c),
		c.Params("id"),
		c.Query("ordering"),
		c.QueryInt("limit", 0),
		c.QueryInt("offset", 0),
	)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(toItemResponses(items))
}

// CreateItemRequest is the request body for creating or replacing an item.
type CreateItemRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Purchased *bool  `json:"purchased" validate:"required"`
}

// HandleCreateItem adds an item to a shopping list. A duplicate unpurchased
// name on the same list is rejected as a validation failure.
func (h *ShoppingItemHandler) HandleCreateItem(c *fiber.Ctx) error {
	var req CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationDetails(err),
		})
	}

	item, err := h.service.CreateItem(actingUser(c), c.Params("id"), req.Name, *req.Purchased)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toItemResponse(item))
}

// HandleGetItem returns a single shopping item.
func (h *ShoppingItemHandler) HandleGetItem(c *fiber.Ctx) error {
	item, err := h.service.GetItem(actingUser(c), c.Params("id"), c.Params("itemID"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(toItemResponse(item))
}

// HandleUpdateItem replaces an item's name and purchased flag.
func (h *ShoppingItemHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationDetails(err),
		})
	}

	item, err := h.service.UpdateItem(actingUser(c), c.Params("id"), c.Params("itemID"), &req.Name, req.Purchased)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(toItemResponse(item))
}

// PatchItemRequest is the request body for a partial item update.
type PatchItemRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=100"`
	Purchased *bool   `json:"purchased"`
}

// HandlePatchItem partially updates an item; absent fields are left untouched.
func (h *ShoppingItemHandler) HandlePatchItem(c *fiber.Ctx) error {
	var req PatchItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationDetails(err),
		})
	}

	item, err := h.service.UpdateItem(actingUser(c), c.Params("id"), c.Params("itemID"), req.Name, req.Purchased)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(toItemResponse(item))
}

// HandleDeleteItem removes a shopping item.
func (h *ShoppingItemHandler) HandleDeleteItem(c *fiber.Ctx) error {
	if err := h.service.DeleteItem(actingUser(c), c.Params("id"), c.Params("itemID")); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSearchItems performs a case-insensitive substring search over the
// caller's own items.
func (h *ShoppingItemHandler) HandleSearchItems(c *fiber.Ctx) error {
	items, err := h.service.SearchItems(actingUser(c), c.Query("search"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(toItemResponses(items))
}
