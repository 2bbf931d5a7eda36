package course

import (
	"github.com/gofiber/fiber/v2"
	"github.com/respir-app/respir-api/model"
	"github.com/respir-app/respir-api/utils/query"
	"github.com/respir-app/respir-api/utils/response"
	"github.com/respir-app/respir-api/utils/validation"
)

// ListSessions handles GET /courses/:id/sessions
func (h *CourseHandler) ListSessions(c *fiber.Ctx) error {
	courseID, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	sessions, err := h.courses.ListSessions(c.UserContext(), courseID)
	if err != nil {
		return response.FromError(c, err, "Failed to fetch sessions")
	}
	return response.Success(c, sessions)
}

// CreateSession handles POST /courses/:id/sessions
func (h *CourseHandler) CreateSession(c *fiber.Ctx) error {
	courseID, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Title = validation.SanitizeString(req.Title)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	session, err := h.courses.AddSession(c.UserContext(), courseID, req.CourseID, &model.CourseSession{
		Title:           req.Title,
		Description:     req.Description,
		Order:           req.Order,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return response.FromError(c, err, "Failed to create session")
	}
	return response.Created(c, session)
}

// UpdateSession handles PUT and PATCH /courses/:id/sessions/:session_id
func (h *CourseHandler) UpdateSession(c *fiber.Ctx) error {
	courseID, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}
	sessionID, err := query.ParseID(c, "session_id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	var req UpdateSessionRequest
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
	req.Order.Put(changes, "sort_order")
	req.DurationMinutes.Put(changes, "duration_minutes")

	session, err := h.courses.UpdateSession(c.UserContext(), courseID, sessionID, req.CourseID, changes)
	if err != nil {
		return response.FromError(c, err, "Failed to update session")
	}
	return response.Success(c, session)
}

// DeleteSession handles DELETE /courses/:id/sessions/:session_id
func (h *CourseHandler) DeleteSession(c *fiber.Ctx) error {
	courseID, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}
	sessionID, err := query.ParseID(c, "session_id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	if err := h.courses.DeleteSession(c.UserContext(), courseID, sessionID); err != nil {
		return response.FromError(c, err, "Failed to delete session")
	}
	return response.NoContent(c)
}
