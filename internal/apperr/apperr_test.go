package apperr

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid id", InvalidIdentifier("x"), fiber.StatusBadRequest},
		{"validation", Validation("bad %s", "input"), fiber.StatusBadRequest},
		{"auth", Auth("no"), fiber.StatusUnauthorized},
		{"forbidden", Forbidden("no"), fiber.StatusForbidden},
		{"not found", NotFound("gone"), fiber.StatusNotFound},
		{"referential", Referential(errors.New("fk"), "in use"), fiber.StatusConflict},
		{"conflict", Conflict(errors.New("dup"), "exists"), fiber.StatusConflict},
		{"persistence", Persistence(errors.New("db down"), "could not save"), fiber.StatusInternalServerError},
		{"fiber", fiber.NewError(fiber.StatusTeapot, "tea"), fiber.StatusTeapot},
		{"plain", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Status(tc.err))
		})
	}
}

func TestKindHelpersSeeThroughWrapping(t *testing.T) {
	err := errors.Wrap(Validation("remarks required"), "unload")
	assert.True(t, IsValidation(err))
	assert.False(t, IsPersistence(err))

	e, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, "remarks required", e.Message)
}

func TestPersistenceKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Persistence(cause, "could not load bookings")
	assert.Contains(t, err.Error(), "could not load bookings")
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, errors.Is(err, cause))
}

func TestFiberErrorHandler(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	app := fiber.New(fiber.Config{ErrorHandler: FiberErrorHandler(log)})
	app.Get("/v", func(c *fiber.Ctx) error { return Validation("quantity must be positive") })
	app.Get("/x", func(c *fiber.Ctx) error { return errors.New("secret detail") })

	resp, err := app.Test(httptest.NewRequest("GET", "/v", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "quantity must be positive", body["error"])

	resp, err = app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "unexpected server error", body["error"])
}
