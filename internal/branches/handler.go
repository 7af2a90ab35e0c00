package branches

import (
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BranchResponse struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Code         string              `json:"code"`
	Address      string              `json:"address"`
	City         string              `json:"city"`
	State        string              `json:"state"`
	Pincode      string              `json:"pincode"`
	Phone        string              `json:"phone"`
	Email        string              `json:"email"`
	IsHeadOffice bool                `json:"is_head_office"`
	Status       models.BranchStatus `json:"status"`
	CreatedAt    string              `json:"created_at"`
	UpdatedAt    string              `json:"updated_at"`
}

func toResponse(b *models.Branch) BranchResponse {
	return BranchResponse{
		ID:           b.ID,
		Name:         b.Name,
		Code:         b.Code,
		Address:      b.Address,
		City:         b.City,
		State:        b.State,
		Pincode:      b.Pincode,
		Phone:        b.Phone,
		Email:        b.Email,
		IsHeadOffice: b.IsHeadOffice,
		Status:       b.Status,
		CreatedAt:    b.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    b.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ----------------------------------------
// BRANCH CRUD
// ----------------------------------------

func CreateBranchHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}

		var body CreateBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid branch payload")
		}

		b, err := svc.Create(c.UserContext(), user, body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(b))
	}
}

func ListBranchesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branches, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}

		res := make([]BranchResponse, 0, len(branches))
		for i := range branches {
			res = append(res, toResponse(&branches[i]))
		}
		return c.JSON(res)
	}
}

func GetBranchHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(toResponse(b))
	}
}

func UpdateBranchHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}

		var body UpdateBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid branch payload")
		}

		b, err := svc.Update(c.UserContext(), user, c.Params("id"), body)
		if err != nil {
			return err
		}
		return c.JSON(toResponse(b))
	}
}

func DeleteBranchHandler(svc *Service) fiber.Handler {
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
