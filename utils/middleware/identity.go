package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/respir-app/respir-api/model"
	"github.com/respir-app/respir-api/utils/response"
	"github.com/respir-app/respir-api/utils/validation"
)

const (
	UserEmailHeader = "X-User-Email"
	UserNameHeader  = "X-User-Name"
)

// UserResolver maps an asserted identity to a stored user
type UserResolver interface {
	ResolveUser(ctx context.Context, email, fullName string) (*model.User, error)
}

// Identity resolves the caller from the X-User-Email / X-User-Name headers.
//
// These headers are trusted as sent. Anyone can claim any email, so the
// progress routes must sit behind a real authenticating proxy in production.
func Identity(users UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := validation.SanitizeString(c.Get(UserEmailHeader))
		if email == "" {
			return response.Unauthorized(c, "Missing "+UserEmailHeader+" header")
		}
		if !validation.ValidateEmail(email) {
			return response.BadRequest(c, "Invalid "+UserEmailHeader+" header")
		}

		user, err := users.ResolveUser(c.UserContext(), email, c.Get(UserNameHeader))
		if err != nil {
			return response.FromError(c, err, "Failed to resolve user")
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// GetUser retrieves the resolved caller from context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user, ok := c.Locals("user").(*model.User)
	return user, ok && user != nil
}

// GetUserID retrieves the caller's id from context
func GetUserID(c *fiber.Ctx) (uint, bool) {
	user, ok := GetUser(c)
	if !ok {
		return 0, false
	}
	return user.ID, true
}
