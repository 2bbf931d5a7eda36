package course

import (
	"github.com/respir-app/respir-api/utils/optional"
	"github.com/respir-app/respir-api/utils/validation"
)

// CreateCourseRequest represents the request body for creating a course
type CreateCourseRequest struct {
	Title           string  `json:"title" validate:"required,min=1,max=255"`
	Description     *string `json:"description" validate:"omitempty,max=2048"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,gte=0"`
	CategoryID      *uint   `json:"category_id" validate:"omitempty,gt=0"`
	LevelID         *uint   `json:"level_id" validate:"omitempty,gt=0"`
	AmbienceID      *uint   `json:"ambience_id" validate:"omitempty,gt=0"`
}

// UpdateCourseRequest is a partial update; an explicit null clears a nullable field
type UpdateCourseRequest struct {
	Title           optional.Value[string] `json:"title" validate:"omitempty,min=1,max=255"`
	Description     optional.Value[string] `json:"description" validate:"omitempty,max=2048"`
	DurationMinutes optional.Value[int]    `json:"duration_minutes" validate:"omitempty,gte=0"`
	CategoryID      optional.Value[uint]   `json:"category_id" validate:"omitempty,gt=0"`
	LevelID         optional.Value[uint]   `json:"level_id" validate:"omitempty,gt=0"`
	AmbienceID      optional.Value[uint]   `json:"ambience_id" validate:"omitempty,gt=0"`
}

// CreateSessionRequest represents a new session; course_id is optional and must match the path
type CreateSessionRequest struct {
	CourseID        *uint   `json:"course_id"`
	Title           string  `json:"title" validate:"required,min=1,max=255"`
	Description     *string `json:"description" validate:"omitempty,max=2048"`
	Order           *int    `json:"order"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,gte=0"`
}

type UpdateSessionRequest struct {
	CourseID        *uint                  `json:"course_id"`
	Title           optional.Value[string] `json:"title" validate:"omitempty,min=1,max=255"`
	Description     optional.Value[string] `json:"description" validate:"omitempty,max=2048"`
	Order           optional.Value[int]    `json:"order"`
	DurationMinutes optional.Value[int]    `json:"duration_minutes" validate:"omitempty,gte=0"`
}

// blank reports a present string that is empty once trimmed
func blank(v optional.Value[string]) bool {
	return v.Ptr != nil && validation.SanitizeString(*v.Ptr) == ""
}
