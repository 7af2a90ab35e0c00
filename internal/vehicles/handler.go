package vehicles

import (
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"

	"github.com/gofiber/fiber/v2"
)

type StatusRequest struct {
	Status models.VehicleStatus `json:"status"`
}

// GET /api/dashboard/vehicles?branch_id=...
func ListVehiclesHandler(svc *Service) fiber.Handler {
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

func CreateVehicleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}

		var body VehicleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid vehicle payload")
		}

		v, err := svc.Create(c.UserContext(), user, body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(v)
	}
}

func UpdateVehicleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}

		var body VehicleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid vehicle payload")
		}

		v, err := svc.Update(c.UserContext(), user, c.Params("id"), body)
		if err != nil {
			return err
		}
		return c.JSON(v)
	}
}

// PUT /api/dashboard/vehicles/:id/status
func UpdateVehicleStatusHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}

		var body StatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid status payload")
		}

		v, err := svc.UpdateStatus(c.UserContext(), user, c.Params("id"), body.Status)
		if err != nil {
			return err
		}
		return c.JSON(v)
	}
}

func DeleteVehicleHandler(svc *Service) fiber.Handler {
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
