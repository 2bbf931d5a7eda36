package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/respir-app/respir-api/utils/optional"
)

var (
	// EmailRegex is a simple email validation regex
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance that also understands optional patch fields
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	v.RegisterCustomTypeFunc(optional.Extract,
		optional.Value[string]{},
		optional.Value[int]{},
		optional.Value[uint]{},
	)
	return &Validator{
		validate: v,
	}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationErrors converts validation errors to a user-friendly format
func FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errs[field] = fmt.Sprintf("%s is required", field)
			case "email":
				errs[field] = "Invalid email format"
			case "min":
				if isNumeric(e) {
					errs[field] = fmt.Sprintf("%s must be at least %s", field, e.Param())
				} else {
					errs[field] = fmt.Sprintf("%s must be at least %s characters", field, e.Param())
				}
			case "max":
				if isNumeric(e) {
					errs[field] = fmt.Sprintf("%s must be at most %s", field, e.Param())
				} else {
					errs[field] = fmt.Sprintf("%s must be at most %s characters", field, e.Param())
				}
			case "gt":
				errs[field] = fmt.Sprintf("%s must be greater than %s", field, e.Param())
			case "gte":
				errs[field] = fmt.Sprintf("%s must be greater than or equal to %s", field, e.Param())
			case "url":
				errs[field] = fmt.Sprintf("%s must be a valid URL", field)
			default:
				errs[field] = fmt.Sprintf("%s is invalid", field)
			}
		}
	}

	return errs
}

// ValidateEmail checks if an email is valid
func ValidateEmail(email string) bool {
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	return EmailRegex.MatchString(email)
}

// SanitizeString removes potentially dangerous characters
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")
	// Trim whitespace
	s = strings.TrimSpace(s)
	return s
}

// SanitizeOptional sanitizes a nullable string, keeping nil as nil
func SanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	clean := SanitizeString(*s)
	return &clean
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func isNumeric(e validator.FieldError) bool {
	switch e.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
