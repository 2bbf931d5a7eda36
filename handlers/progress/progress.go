package progress

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/respir-app/respir-api/model"
	"github.com/respir-app/respir-api/services"
	"github.com/respir-app/respir-api/utils/middleware"
	"github.com/respir-app/respir-api/utils/query"
	"github.com/respir-app/respir-api/utils/response"
	"github.com/respir-app/respir-api/utils/validation"
	"gorm.io/gorm"
)

// ProgressHandler exposes the caller's course progress
type ProgressHandler struct {
	progress  *services.ProgressService
	validator *validation.Validator
}

func NewProgressHandler(db *gorm.DB) *ProgressHandler {
	return &ProgressHandler{
		progress:  services.NewProgressService(db),
		validator: validation.NewValidator(),
	}
}

// StartProgressRequest represents the body of POST /progress/start
type StartProgressRequest struct {
	CourseID uint `json:"course_id" validate:"required,gt=0"`
}

// LogProgressRequest represents a listening report
type LogProgressRequest struct {
	ListenedSeconds int `json:"listened_seconds" validate:"gt=0"`
}

// CompleteProgressRequest may carry a final listening report
type CompleteProgressRequest struct {
	ListenedSeconds *int `json:"listened_seconds" validate:"omitempty,gt=0"`
}

// ListMyProgress handles GET /progress/me
func (h *ProgressHandler) ListMyProgress(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not identified")
	}

	progresses, err := h.progress.ListForUser(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err, "Failed to fetch progress")
	}
	return response.Success(c, progresses)
}

// GetProgress handles GET /progress/:id
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not identified")
	}
	id, err := query.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	progress, err := h.progress.Get(c.UserContext(), userID, id)
	if err != nil {
		return response.FromError(c, err, "Failed to fetch progress")
	}
	return response.Success(c, progress)
}

// StartProgress handles POST /progress/start
func (h *ProgressHandler) StartProgress(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not identified")
	}

	var req StartProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	progress, err := h.progress.Start(c.UserContext(), userID, req.CourseID)
	if err != nil {
		return response.FromError(c, err, "Failed to start course")
	}
	return response.Created(c, progress)
}

// LogProgress handles POST /progress/:id/log
func (h *ProgressHandler) LogProgress(c *fiber.Ctx) error {
	return h.logListening(c, "id", h.progress.Log)
}

// LogCourseProgress handles POST /progress/courses/:course_id/log
func (h *ProgressHandler) LogCourseProgress(c *fiber.Ctx) error {
	return h.logListening(c, "course_id", h.progress.LogCourse)
}

// CompleteProgress handles POST /progress/:id/complete
func (h *ProgressHandler) CompleteProgress(c *fiber.Ctx) error {
	return h.complete(c, "id", h.progress.Complete)
}

// CompleteCourseProgress handles POST /progress/courses/:course_id/complete
func (h *ProgressHandler) CompleteCourseProgress(c *fiber.Ctx) error {
	return h.complete(c, "course_id", h.progress.CompleteCourse)
}

type logFunc = func(ctx context.Context, userID, targetID uint, seconds int) (*model.UserProgress, error)

type completeFunc = func(ctx context.Context, userID, targetID uint, seconds *int) (*model.UserProgress, error)

func (h *ProgressHandler) logListening(c *fiber.Ctx, param string, log logFunc) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not identified")
	}
	targetID, err := query.ParseID(c, param)
	if err != nil {
		return response.FromError(c, err, "")
	}

	var req LogProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	progress, err := log(c.UserContext(), userID, targetID, req.ListenedSeconds)
	if err != nil {
		return response.FromError(c, err, "Failed to log listening time")
	}
	return response.Success(c, progress)
}

func (h *ProgressHandler) complete(c *fiber.Ctx, param string, complete completeFunc) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not identified")
	}
	targetID, err := query.ParseID(c, param)
	if err != nil {
		return response.FromError(c, err, "")
	}

	// the body is optional
	var req CompleteProgressRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	progress, err := complete(c.UserContext(), userID, targetID, req.ListenedSeconds)
	if err != nil {
		return response.FromError(c, err, "Failed to complete course")
	}
	return response.Success(c, progress)
}
