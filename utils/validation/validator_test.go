package validation

import (
	"testing"

	"github.com/respir-app/respir-api/utils/optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createLevel struct {
	Name  string `json:"name" validate:"required,min=1,max=10"`
	Order *int   `json:"order" validate:"omitempty,min=0"`
}

type patchCourse struct {
	Title           optional.Value[string] `json:"title" validate:"omitempty,min=1,max=10"`
	DurationMinutes optional.Value[int]    `json:"duration_minutes" validate:"omitempty,min=0"`
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.ValidateStruct(createLevel{Name: ""})
	require.Error(t, err)
	assert.Equal(t, map[string]string{"name": "name is required"}, FormatValidationErrors(err))

	negative := -1
	err = v.ValidateStruct(createLevel{Name: "Débutant", Order: &negative})
	require.Error(t, err)
	assert.Equal(t, "order must be at least 0", FormatValidationErrors(err)["order"])
}

func TestValidateOptionalFields(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateStruct(patchCourse{}))
	assert.NoError(t, v.ValidateStruct(patchCourse{Title: optional.Null[string]()}))
	assert.NoError(t, v.ValidateStruct(patchCourse{Title: optional.Of("Breathe")}))

	err := v.ValidateStruct(patchCourse{Title: optional.Of("a title that is too long")})
	require.Error(t, err)
	assert.Contains(t, FormatValidationErrors(err), "title")

	err = v.ValidateStruct(patchCourse{DurationMinutes: optional.Of(-5)})
	require.Error(t, err)
	assert.Equal(t, "duration_minutes must be at least 0", FormatValidationErrors(err)["duration_minutes"])
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "calm", SanitizeString("  ca\x00lm \n"))
	assert.Nil(t, SanitizeOptional(nil))
	in := " ocean "
	assert.Equal(t, "ocean", *SanitizeOptional(&in))
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("a@example.com"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail(""))
}
