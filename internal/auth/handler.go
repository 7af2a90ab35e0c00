package auth

import (
	"desicargo-backend/internal/session"

	"github.com/gofiber/fiber/v2"
)

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenRequest struct {
	Token string `json:"token"`
}

type ResetRequest struct {
	Email string `json:"email"`
}

type ResetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func SignInHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SignInRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		res, err := svc.SignIn(c.UserContext(), body.Email, body.Password)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

func SignUpHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SignUpRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		u, err := svc.SignUp(c.UserContext(), body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":             u.ID,
			"email":          u.Email,
			"email_verified": u.EmailVerified,
			"message":        "check your inbox to verify your email address",
		})
	}
}

func VerifyEmailHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body TokenRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := svc.VerifyEmail(c.UserContext(), body.Token); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"email_verified": true})
	}
}

func SignOutHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.SignOut(c.UserContext(), claimsFromCtx(c)); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func RequestPasswordResetHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ResetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := svc.RequestPasswordReset(c.UserContext(), body.Email); err != nil {
			return err
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"message": "if the address is registered a reset link has been sent",
		})
	}
}

func ConfirmPasswordResetHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ResetConfirmRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := svc.ConfirmPasswordReset(c.UserContext(), body.Token, body.Password); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}
		return c.JSON(user)
	}
}
