package bookings

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(svc *Service, actor *session.User) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.FiberErrorHandler(quietLogger())})
	app.Use(func(c *fiber.Ctx) error {
		if actor != nil {
			session.SetCtx(c, actor)
		}
		return c.Next()
	})
	app.Get("/bookings", ListBookingsHandler(svc))
	app.Post("/bookings", CreateBookingHandler(svc))
	app.Put("/bookings/:id/status", UpdateBookingStatusHandler(svc))
	app.Delete("/bookings/:id", DeleteBookingHandler(svc))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, url string, body any) (int, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp.StatusCode, out.Bytes()
}

func TestBookingHandlers_Lifecycle(t *testing.T) {
	f := newFixture(t)
	app := newTestApp(f.svc, f.actor)

	status, raw := doJSON(t, app, "POST", "/bookings", f.draft())
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var created models.Booking
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "330", created.TotalAmount.String())

	status, raw = doJSON(t, app, "GET", "/bookings", nil)
	require.Equal(t, fiber.StatusOK, status)
	var list []models.Booking
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)

	status, _ = doJSON(t, app, "PUT", "/bookings/"+created.ID.String()+"/status", UpdateStatusRequest{Status: models.BookingInTransit})
	require.Equal(t, fiber.StatusOK, status)

	status, raw = doJSON(t, app, "DELETE", "/bookings/"+created.ID.String(), nil)
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(raw), "only bookings in booked status")
}

func TestBookingHandlers_ErrorMapping(t *testing.T) {
	f := newFixture(t)
	app := newTestApp(f.svc, f.actor)

	status, raw := doJSON(t, app, "GET", "/bookings?branch_id=12", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(raw), "invalid identifier")

	status, _ = doJSON(t, app, "DELETE", "/bookings/1f0c6b7e-2a4d-4c1e-9a55-0d3c2b1a9f88", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	anon := newTestApp(f.svc, nil)
	status, _ = doJSON(t, anon, "GET", "/bookings", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
