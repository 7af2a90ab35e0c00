package bookings

import (
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"

	"github.com/gofiber/fiber/v2"
)

type UpdateStatusRequest struct {
	Status models.BookingStatus `json:"status"`
	Fields map[string]any       `json:"fields"`
}

// GET /api/dashboard/bookings?branch_id=...
func ListBookingsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}

		list, err := svc.List(c.UserContext(), user, c.Query("branch_id"))
		if err != nil {
			return err
		}
		return c.JSON(list)
	}
}

// POST /api/dashboard/bookings
func CreateBookingHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}

		var body Draft
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid booking payload")
		}

		b, err := svc.Create(c.UserContext(), user, body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(b)
	}
}

// PUT /api/dashboard/bookings/:id/status
func UpdateBookingStatusHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid status payload")
		}

		b, err := svc.UpdateStatus(c.UserContext(), user, c.Params("id"), body.Status, body.Fields)
		if err != nil {
			return err
		}
		return c.JSON(b)
	}
}

// DELETE /api/dashboard/bookings/:id
func DeleteBookingHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}

		if err := svc.Delete(c.UserContext(), user, c.Params("id")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
