package tracking

import "github.com/gofiber/fiber/v2"

// GET /api/track/:lrNumber
func TrackHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Track(c.UserContext(), c.Params("lrNumber"))
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}
