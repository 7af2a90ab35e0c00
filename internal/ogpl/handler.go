package ogpl

import (
	"desicargo-backend/internal/session"

	"github.com/gofiber/fiber/v2"
)

type PhotoUploadRequest struct {
	BookingID   string `json:"booking_id"`
	ContentType string `json:"content_type"`
}

// POST /api/dashboard/ogpl
func CreateOGPLHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}

		var body CreateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid OGPL payload")
		}

		o, err := svc.Create(c.UserContext(), user, body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(o)
	}
}

// POST /api/dashboard/ogpl/:id/load
func LoadBookingsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}

		var body LoadRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid loading payload")
		}

		o, err := svc.Load(c.UserContext(), user, c.Params("id"), body)
		if err != nil {
			return err
		}
		return c.JSON(o)
	}
}

// POST /api/dashboard/ogpl/:id/unload
func UnloadHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}

		var body UnloadRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid unloading payload")
		}

		rec, err := svc.Unload(c.UserContext(), user, c.Params("id"), body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// GET /api/dashboard/ogpl/incoming?branch_id=...
func ListIncomingHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}
		list, err := svc.ListIncoming(c.UserContext(), user, c.Query("branch_id"))
		if err != nil {
			return err
		}
		return c.JSON(list)
	}
}

// GET /api/dashboard/ogpl/unloadings?branch_id=...
func ListUnloadingsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}
		list, err := svc.ListUnloadings(c.UserContext(), user, c.Query("branch_id"))
		if err != nil {
			return err
		}
		return c.JSON(list)
	}
}

// POST /api/dashboard/ogpl/:id/photo-upload-url
func PhotoUploadURLHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := session.Current(c); err != nil {
			return err
		}

		var body PhotoUploadRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid upload payload")
		}

		up, err := svc.PhotoUploadURL(c.UserContext(), c.Params("id"), body.BookingID, body.ContentType)
		if err != nil {
			return err
		}
		return c.JSON(up)
	}
}
