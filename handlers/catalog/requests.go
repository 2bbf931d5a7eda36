package catalog

import (
	"github.com/respir-app/respir-api/utils/optional"
	"github.com/respir-app/respir-api/utils/validation"
)

// CreateCategoryRequest represents the request body for creating a category
type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1024"`
}

// UpdateCategoryRequest is a partial update; absent fields are left untouched
type UpdateCategoryRequest struct {
	Name        optional.Value[string] `json:"name" validate:"omitempty,min=1,max=255"`
	Description optional.Value[string] `json:"description" validate:"omitempty,max=1024"`
}

type CreateLevelRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1024"`
	Order       *int    `json:"order"`
}

type UpdateLevelRequest struct {
	Name        optional.Value[string] `json:"name" validate:"omitempty,min=1,max=255"`
	Description optional.Value[string] `json:"description" validate:"omitempty,max=1024"`
	Order       optional.Value[int]    `json:"order"`
}

type CreateAmbienceRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1024"`
	AudioURL    *string `json:"audio_url" validate:"omitempty,max=2048"`
}

type UpdateAmbienceRequest struct {
	Name        optional.Value[string] `json:"name" validate:"omitempty,min=1,max=255"`
	Description optional.Value[string] `json:"description" validate:"omitempty,max=1024"`
	AudioURL    optional.Value[string] `json:"audio_url" validate:"omitempty,max=2048"`
}

// blank reports a present string that is empty once trimmed
func blank(v optional.Value[string]) bool {
	return v.Ptr != nil && validation.SanitizeString(*v.Ptr) == ""
}
