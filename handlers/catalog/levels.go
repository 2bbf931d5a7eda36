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

// LevelHandler handles difficulty level requests
type LevelHandler struct {
	levels    *services.LookupService[model.Level]
	validator *validation.Validator
}

func NewLevelHandler(db *gorm.DB) *LevelHandler {
	return &LevelHandler{
		levels:    services.NewLevelService(db),
		validator: validation.NewValidator(),
	}
}

// ListLevels handles GET /levels, ordered by order (unset last) then name
func (h *LevelHandler) ListLevels(c *fiber.Ctx) error {
	levels, err := h.levels.List(c.UserContext())
	if err != nil {
		return response.FromError(c, err, "Failed to fetch levels")
	}
	return response.Success(c, levels)
}

func (h *LevelHandler) GetLevel(c *fiber.Ctx) error {
	id, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	level, err := h.levels.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err, "Failed to fetch level")
	}
	return response.Success(c, level)
}

func (h *LevelHandler) CreateLevel(c *fiber.Ctx) error {
	var req CreateLevelRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Name = validation.SanitizeString(req.Name)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	level, err := h.levels.Create(c.UserContext(), &model.Level{
		Name:        req.Name,
		Description: req.Description,
		Order:       req.Order,
	})
	if err != nil {
		return response.FromError(c, err, "Failed to create level")
	}
	return response.Created(c, level)
}

func (h *LevelHandler) UpdateLevel(c *fiber.Ctx) error {
	id, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	var req UpdateLevelRequest
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
	req.Order.Put(changes, "sort_order")

	level, err := h.levels.Update(c.UserContext(), id, changes)
	if err != nil {
		return response.FromError(c, err, "Failed to update level")
	}
	return response.Success(c, level)
}

func (h *LevelHandler) DeleteLevel(c *fiber.Ctx) error {
	id, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	if err := h.levels.Delete(c.UserContext(), id); err != nil {
		return response.FromError(c, err, "Failed to delete level")
	}
	return response.NoContent(c)
}
