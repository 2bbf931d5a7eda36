package query

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/respir-app/respir-api/utils/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	app := fiber.New()
	var got uint
	var gotErr error
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		got, gotErr = ParseID(c, "id")
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/items/12", nil), -1)
	require.NoError(t, err)
	require.NoError(t, gotErr)
	assert.Equal(t, uint(12), got)

	for _, raw := range []string{"0", "-3", "abc"} {
		_, err := app.Test(httptest.NewRequest("GET", "/items/"+raw, nil), -1)
		require.NoError(t, err)
		assert.ErrorIs(t, gotErr, apperror.ErrBadRequest, raw)
	}
}

func TestOptionalUintAndLimit(t *testing.T) {
	app := fiber.New()
	var filter *uint
	var filterErr error
	var limit int
	app.Get("/", func(c *fiber.Ctx) error {
		filter, filterErr = OptionalUint(c, "level_id")
		limit = Limit(c, 50, 200)
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.NoError(t, filterErr)
	assert.Nil(t, filter)
	assert.Equal(t, 50, limit)

	_, err = app.Test(httptest.NewRequest("GET", "/?level_id=4&limit=500", nil), -1)
	require.NoError(t, err)
	require.NotNil(t, filter)
	assert.Equal(t, uint(4), *filter)
	assert.Equal(t, 200, limit)

	_, err = app.Test(httptest.NewRequest("GET", "/?level_id=x&limit=10", nil), -1)
	require.NoError(t, err)
	assert.ErrorIs(t, filterErr, apperror.ErrBadRequest)
	assert.Equal(t, 10, limit)
}
