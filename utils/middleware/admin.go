package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/respir-app/respir-api/model"
	"github.com/respir-app/respir-api/utils/response"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminTokenHeader carries the shared catalog administration secret
const AdminTokenHeader = "X-Admin-Token"

// RequireAdmin middleware rejects requests without the admin secret
func RequireAdmin(secret string) fiber.Handler {
	expected := []byte(secret)
	return func(c *fiber.Ctx) error {
		token := c.Get(AdminTokenHeader)
		if token == "" {
			return response.Unauthorized(c, "Missing admin token")
		}
		if len(expected) == 0 || subtle.ConstantTimeCompare([]byte(token), expected) != 1 {
			return response.Unauthorized(c, "Invalid admin token")
		}

		c.Locals("admin", true)
		return c.Next()
	}
}

// AdminAuditLog records a successful admin mutation once the handler has run.
// Failed requests (status >= 400) are not recorded.
func AdminAuditLog(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload datatypes.JSON
		if body := c.Body(); len(body) > 0 && json.Valid(body) {
			payload = datatypes.JSON(append([]byte(nil), body...))
		}

		// Execute the actual handler
		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusBadRequest {
			return nil
		}

		requestID, _ := c.Locals("requestid").(string)
		entry := model.AdminAuditLog{
			Action:      action,
			Resource:    resource,
			ResourceID:  auditResourceID(c),
			Payload:     payload,
			StatusCode:  status,
			IPAddress:   c.IP(),
			UserAgent:   c.Get(fiber.HeaderUserAgent),
			RequestID:   requestID,
			Description: c.Method() + " " + c.Path(),
		}
		if err := db.WithContext(c.UserContext()).Create(&entry).Error; err != nil {
			log.Warnw("failed to write admin audit log", "action", action, "error", err)
		}
		return nil
	}
}

// auditResourceID picks the most specific id in the path, falling back to the
// id of the created resource in the response envelope.
func auditResourceID(c *fiber.Ctx) uint {
	for _, param := range []string{"session_id", "id"} {
		if raw := c.Params(param); raw != "" {
			if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
				return uint(id)
			}
		}
	}

	var envelope struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(c.Response().Body(), &envelope); err != nil {
		return 0
	}
	return envelope.Data.ID
}
