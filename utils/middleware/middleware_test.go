package middleware

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/respir-app/respir-api/database/dbtest"
	"github.com/respir-app/respir-api/model"
	"github.com/respir-app/respir-api/utils/apperror"
	"github.com/respir-app/respir-api/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	calls []string
	err   error
}

func (s *stubResolver) ResolveUser(_ context.Context, email, fullName string) (*model.User, error) {
	s.calls = append(s.calls, email+"|"+fullName)
	if s.err != nil {
		return nil, s.err
	}
	return &model.User{ID: 7, Email: email}, nil
}

func readBody(t *testing.T, body io.Reader) string {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	return string(raw)
}

func TestRequireAdmin(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", RequireAdmin("s3cret"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	cases := []struct {
		name   string
		token  string
		status int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"wrong", "nope", fiber.StatusUnauthorized},
		{"prefix", "s3cre", fiber.StatusUnauthorized},
		{"valid", "s3cret", fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			if tc.token != "" {
				req.Header.Set(AdminTokenHeader, tc.token)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestIdentity(t *testing.T) {
	resolver := &stubResolver{}
	app := fiber.New()
	app.Get("/me", Identity(resolver), func(c *fiber.Ctx) error {
		user, ok := GetUser(c)
		require.True(t, ok)
		id, _ := GetUserID(c)
		assert.Equal(t, user.ID, id)
		return c.SendString(user.Email)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set(UserEmailHeader, "not-an-email")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, resolver.calls)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set(UserEmailHeader, " ana@example.com ")
	req.Header.Set(UserNameHeader, "Ana")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ana@example.com", readBody(t, resp.Body))
	assert.Equal(t, []string{"ana@example.com|Ana"}, resolver.calls)
}

func TestGetUserIDWithoutIdentity(t *testing.T) {
	app := fiber.New()
	app.Get("/anon", func(c *fiber.Ctx) error {
		_, ok := GetUserID(c)
		assert.False(t, ok)
		c.Locals("user", &model.User{ID: 7})
		id, ok := GetUserID(c)
		assert.True(t, ok)
		assert.Equal(t, uint(7), id)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/anon", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestIdentityResolverFailure(t *testing.T) {
	app := fiber.New()
	app.Get("/me", Identity(&stubResolver{err: apperror.Unauthorized("nope")}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set(UserEmailHeader, "ana@example.com")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminAuditLogRecordsSuccessOnly(t *testing.T) {
	db := dbtest.New(t)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "req-1")
		return c.Next()
	})
	app.Post("/courses", AdminAuditLog(db, "course_create", "courses"), func(c *fiber.Ctx) error {
		if strings.Contains(string(c.Body()), "fail") {
			return response.Conflict(c, "duplicate")
		}
		return response.Created(c, fiber.Map{"id": 42})
	})
	app.Delete("/courses/:id/sessions/:session_id", AdminAuditLog(db, "session_delete", "course_sessions"), func(c *fiber.Ctx) error {
		return response.NoContent(c)
	})

	req := httptest.NewRequest("POST", "/courses", strings.NewReader(`{"title":"Souffle"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest("POST", "/courses", strings.NewReader(`{"title":"fail"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/courses/3/sessions/9", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	var entries []model.AdminAuditLog
	require.NoError(t, db.Order("id").Find(&entries).Error)
	require.Len(t, entries, 2)

	assert.Equal(t, "course_create", entries[0].Action)
	assert.Equal(t, uint(42), entries[0].ResourceID)
	assert.Equal(t, fiber.StatusCreated, entries[0].StatusCode)
	assert.Equal(t, "req-1", entries[0].RequestID)
	assert.JSONEq(t, `{"title":"Souffle"}`, string(entries[0].Payload))

	assert.Equal(t, "session_delete", entries[1].Action)
	assert.Equal(t, uint(9), entries[1].ResourceID)
	assert.Empty(t, entries[1].Payload)
}

func TestSetupSecurityRateLimit(t *testing.T) {
	app := fiber.New()
	SetupSecurity(app, SecurityConfig{
		AllowedOrigins:    "https://app.example.com, https://admin.example.com",
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
		DisableLogger:     true,
	})
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, readBody(t, resp.Body), "TOO_MANY_REQUESTS")

	// health checks are never throttled
	resp, err = app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestNormalizeOrigins(t *testing.T) {
	assert.Equal(t, "*", normalizeOrigins(""))
	assert.Equal(t, "*", normalizeOrigins(" , "))
	assert.Equal(t, "https://a.example,https://b.example", normalizeOrigins("https://a.example, https://b.example"))
}
