package handlers

import (
	"errors"
	"log"

	"belanja/internal/models"
	"belanja/internal/repositories"
	"belanja/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ShoppingListHandler handles HTTP requests for shopping lists and their
// member set.
type ShoppingListHandler struct {
	service  *services.ShoppingListService
	validate *validator.Validate
}

// NewShoppingListHandler creates a new ShoppingListHandler.
func NewShoppingListHandler(service *services.ShoppingListService) *ShoppingListHandler {
	return &ShoppingListHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the shopping list routes with the Fiber app.
func (h *ShoppingListHandler) RegisterRoutes(router fiber.Router) {
	listRoutes := router.Group("/shopping-lists")
	listRoutes.Get("/", h.HandleGetLists)
	listRoutes.Post("/", h.HandleCreateList)
	listRoutes.Get("/:id", h.HandleGetList)
	listRoutes.Put("/:id", h.HandleUpdateList)
	listRoutes.Patch("/:id", h.HandlePatchList)
	listRoutes.Delete("/:id", h.HandleDeleteList)
	listRoutes.Put("/:id/add-members", h.HandleAddMembers)
	listRoutes.Put("/:id/remove-members", h.HandleRemoveMembers)
}

// actingUser returns the authenticated user attached by the auth middleware.
func actingUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// respondServiceError maps domain errors onto HTTP statuses: validation
// failures to 400, denied access to 403, missing records to 404 and
// everything else to 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	var valErr *services.ValidationError
	switch {
	case errors.As(err, &valErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fiber.Map{valErr.Field: valErr.Message},
		})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not have permission to perform this action",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	default:
		log.Printf("Unhandled service error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}

// validationDetails flattens validator errors into a field->message map.
func validationDetails(err error) map[string]string {
	details := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details[e.Field()] = "failed on the '" + e.Tag() + "' tag"
		}
	}
	return details
}

// HandleGetLists returns the caller's shopping lists, most recently
// interacted with first.
func (h *ShoppingListHandler) HandleGetLists(c *fiber.Ctx) error {
	summaries, err := h.service.GetListsForUser(actingUser(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(summaries)
}

// CreateListRequest is the request body for creating a shopping list.
type CreateListRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// HandleCreateList creates a new shopping list with the caller as its first
// member.
func (h *ShoppingListHandler) HandleCreateList(c *fiber.Ctx) error {
	var req CreateListRequest
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

	summary, err := h.service.CreateList(actingUser(c), req.Name)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(summary)
}

// HandleGetList returns a single shopping list.
func (h *ShoppingListHandler) HandleGetList(c *fiber.Ctx) error {
	summary, err := h.service.GetList(actingUser(c), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(summary)
}

// HandleUpdateList replaces a shopping list's name.
func (h *ShoppingListHandler) HandleUpdateList(c *fiber.Ctx) error {
	var req CreateListRequest
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

	summary, err := h.service.UpdateList(actingUser(c), c.Params("id"), req.Name)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(summary)
}

// PatchListRequest is the request body for a partial list update.
type PatchListRequest struct {
	Name *string `json:"name" validate:"omitempty,max=200"`
}

// HandlePatchList partially updates a shopping list; absent fields are left
// untouched.
func (h *ShoppingListHandler) HandlePatchList(c *fiber.Ctx) error {
	var req PatchListRequest
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

	if req.Name == nil {
		summary, err := h.service.GetList(actingUser(c), c.Params("id"))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(summary)
	}

	summary, err := h.service.UpdateList(actingUser(c), c.Params("id"), *req.Name)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(summary)
}

// HandleDeleteList deletes a shopping list and all of its items.
func (h *ShoppingListHandler) HandleDeleteList(c *fiber.Ctx) error {
	if err := h.service.DeleteList(actingUser(c), c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MembersRequest is the request body for the add-members and remove-members
// endpoints.
type MembersRequest struct {
	Members []string `json:"members" validate:"required,min=1,dive,required"`
}

// HandleAddMembers adds users to the list's member set. The whole call fails
// when any id is unknown.
func (h *ShoppingListHandler) HandleAddMembers(c *fiber.Ctx) error {
	return h.handleMembersEdit(c, h.service.AddMembers)
}

// HandleRemoveMembers removes users from the list's member set. The whole
// call fails when any id is unknown.
func (h *ShoppingListHandler) HandleRemoveMembers(c *fiber.Ctx) error {
	return h.handleMembersEdit(c, h.service.RemoveMembers)
}

func (h *ShoppingListHandler) handleMembersEdit(c *fiber.Ctx, edit func(*models.User, string, []string) (*services.ShoppingListSummary, error)) error {
	var req MembersRequest
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

	summary, err := edit(actingUser(c), c.Params("id"), req.Members)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(summary)
}
