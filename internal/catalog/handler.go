package catalog

import (
	"desicargo-backend/internal/session"

	"github.com/gofiber/fiber/v2"
)

// GET /api/dashboard/parties?branch_id=...&search=...
func ListPartiesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}
		out, err := svc.ListParties(c.UserContext(), user, c.Query("branch_id"), c.Query("search"))
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

func CreatePartyHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}
		var body PartyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid party payload")
		}
		p, err := svc.CreateParty(c.UserContext(), user, body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

func ListArticlesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}
		out, err := svc.ListArticles(c.UserContext(), user, c.Query("branch_id"))
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

func CreateArticleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}
		var body ArticleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid article payload")
		}
		a, err := svc.CreateArticle(c.UserContext(), user, body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}
