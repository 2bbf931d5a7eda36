// Package query parses path and query parameters shared by the handlers.
package query

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/respir-app/respir-api/utils/apperror"
)

// ParseID reads a positive integer path parameter
func ParseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.BadRequest("Invalid " + name)
	}
	return uint(id), nil
}

// OptionalUint reads an optional positive integer query parameter; absent yields nil
func OptionalUint(c *fiber.Ctx, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return nil, apperror.BadRequest("Invalid " + name + " filter")
	}
	id := uint(v)
	return &id, nil
}

// Limit reads the "limit" query parameter, falling back to def and capping at max
func Limit(c *fiber.Ctx, def, max int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
