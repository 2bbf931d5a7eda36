package catalog

import (
	"github.com/gofiber/fiber/v2"
	"github.com/respir-app/respir-api/model"
	"github.com/respir-app/respir-api/services"
	"github.com/respir-app/respir-api/utils/query"
	"github.com/respir-app/respir-api/utils/response"
	"github.com/respir-app/respir-api/utils/validation"
	"gorm.io/gorm"
)

// CategoryHandler handles category requests
type CategoryHandler struct {
	categories *services.LookupService[model.Category]
	validator  *validation.Validator
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{
		categories: services.NewCategoryService(db),
		validator:  validation.NewValidator(),
	}
}

// ListCategories handles GET /categories
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categories.List(c.UserContext())
	if err != nil {
		return response.FromError(c, err, "Failed to fetch categories")
	}
	return response.Success(c, categories)
}

// GetCategory handles GET /categories/:id
func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	id, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	category, err := h.categories.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err, "Failed to fetch category")
	}
	return response.Success(c, category)
}

// CreateCategory handles POST /categories
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Name = validation.SanitizeString(req.Name)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	category, err := h.categories.Create(c.UserContext(), &model.Category{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return response.FromError(c, err, "Failed to create category")
	}
	return response.Created(c, category)
}

// UpdateCategory handles PUT and PATCH /categories/:id
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	var req UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name.IsNull() {
		return response.FieldValidationError(c, "name", "name cannot be null")
	}
	if blank(req.Name) {
		return response.FieldValidationError(c, "name", "name cannot be empty")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	changes := map[string]interface{}{}
	req.Name.Map(changes, "name", validation.SanitizeString)
	req.Description.Put(changes, "description")

	category, err := h.categories.Update(c.UserContext(), id, changes)
	if err != nil {
		return response.FromError(c, err, "Failed to update category")
	}
	return response.Success(c, category)
}

// DeleteCategory handles DELETE /categories/:id; courses keep existing without a category
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	if err := h.categories.Delete(c.UserContext(), id); err != nil {
		return response.FromError(c, err, "Failed to delete category")
	}
	return response.NoContent(c)
}
