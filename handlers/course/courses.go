package course

import (
	"github.com/gofiber/fiber/v2"
	"github.com/respir-app/respir-api/model"
	"github.com/respir-app/respir-api/services"
	"github.com/respir-app/respir-api/utils/query"
	"github.com/respir-app/respir-api/utils/response"
	"github.com/respir-app/respir-api/utils/validation"
	"gorm.io/gorm"
)

// CourseHandler handles course and session requests
type CourseHandler struct {
	courses   *services.CourseService
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(db *gorm.DB) *CourseHandler {
	return &CourseHandler{
		courses:   services.NewCourseService(db),
		validator: validation.NewValidator(),
	}
}

// ListCourses handles GET /courses?category_id=&level_id=&ambience_id=
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	var filter services.CourseFilter
	var err error
	if filter.CategoryID, err = query.OptionalUint(c, "category_id"); err != nil {
		return response.FromError(c, err, "")
	}
	if filter.LevelID, err = query.OptionalUint(c, "level_id"); err != nil {
		return response.FromError(c, err, "")
	}
	if filter.AmbienceID, err = query.OptionalUint(c, "ambience_id"); err != nil {
		return response.FromError(c, err, "")
	}

	courses, err := h.courses.List(c.UserContext(), filter)
	if err != nil {
		return response.FromError(c, err, "Failed to fetch courses")
	}
	return response.Success(c, courses)
}

// GetCourse handles GET /courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	course, err := h.courses.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err, "Failed to fetch course")
	}
	return response.Success(c, course)
}

// CreateCourse handles POST /courses
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Title = validation.SanitizeString(req.Title)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	course, err := h.courses.Create(c.UserContext(), &model.Course{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		CategoryID:      req.CategoryID,
		LevelID:         req.LevelID,
		AmbienceID:      req.AmbienceID,
	})
	if err != nil {
		return response.FromError(c, err, "Failed to create course")
	}
	return response.Created(c, course)
}

// UpdateCourse handles PUT and PATCH /courses/:id
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	id, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	var req UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Title.IsNull() {
		return response.FieldValidationError(c, "title", "title cannot be null")
	}
	if blank(req.Title) {
		return response.FieldValidationError(c, "title", "title cannot be empty")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	changes := map[string]interface{}{}
	req.Title.Map(changes, "title", validation.SanitizeString)
	req.Description.Put(changes, "description")
	req.DurationMinutes.Put(changes, "duration_minutes")
	req.CategoryID.Put(changes, "category_id")
	req.LevelID.Put(changes, "level_id")
	req.AmbienceID.Put(changes, "ambience_id")

	course, err := h.courses.Update(c.UserContext(), id, changes)
	if err != nil {
		return response.FromError(c, err, "Failed to update course")
	}
	return response.Success(c, course)
}

// DeleteCourse handles DELETE /courses/:id, removing its sessions and progress too
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	id, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	if err := h.courses.Delete(c.UserContext(), id); err != nil {
		return response.FromError(c, err, "Failed to delete course")
	}
	return response.NoContent(c)
}
