package users

import (
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"

	"github.com/gofiber/fiber/v2"
)

type RoleRequest struct {
	Role models.UserRole `json:"role"`
}

type BranchRequest struct {
	BranchID string `json:"branch_id"`
}

// GET /api/admin/users?search=&role=&branch_id=&page=&per_page=
func ListUsersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext(), ListQuery{
			Search:   c.Query("search"),
			Role:     c.Query("role"),
			BranchID: c.Query("branch_id"),
			Page:     c.QueryInt("page", 1),
			PerPage:  c.QueryInt("per_page", defaultPerPage),
		})
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// POST /api/admin/users
func InviteUserHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := session.Current(c)
		if err != nil {
			return err
		}

		var body InviteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		u, err := svc.Invite(c.UserContext(), actor, body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// PUT /api/admin/users/:id/role
func UpdateUserRoleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := session.Current(c)
		if err != nil {
			return err
		}

		var body RoleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		u, err := svc.UpdateRole(c.UserContext(), actor, c.Params("id"), body.Role)
		if err != nil {
			return err
		}
		return c.JSON(u)
	}
}

// PUT /api/admin/users/:id/branch
func UpdateUserBranchHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := session.Current(c)
		if err != nil {
			return err
		}

		var body BranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		u, err := svc.UpdateBranch(c.UserContext(), actor, c.Params("id"), body.BranchID)
		if err != nil {
			return err
		}
		return c.JSON(u)
	}
}
