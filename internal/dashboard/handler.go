package dashboard

import (
	"time"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/session"

	"github.com/gofiber/fiber/v2"
)

func parseDate(key, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		return nil, apperr.Validation("%s must be a date (YYYY-MM-DD)", key)
	}
	return &t, nil
}

// ?branch_id=&range=today|yesterday|last_week|last_month|last_3_months|custom&start_date=&end_date=&search=
func queryFromCtx(c *fiber.Ctx) (Query, error) {
	start, err := parseDate("start_date", c.Query("start_date"))
	if err != nil {
		return Query{}, err
	}
	end, err := parseDate("end_date", c.Query("end_date"))
	if err != nil {
		return Query{}, err
	}
	return Query{
		BranchID: c.Query("branch_id"),
		Filter: Filter{
			Range:  Range(c.Query("range")),
			Start:  start,
			End:    end,
			Search: c.Query("search"),
		},
	}, nil
}

// GET /api/dashboard/stats
func StatsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}
		q, err := queryFromCtx(c)
		if err != nil {
			return err
		}

		res, err := svc.Stats(c.UserContext(), user, q)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// GET /api/dashboard/branches/:id/summary
func BranchSummaryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}

		res, err := svc.BranchSummary(c.UserContext(), user, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// GET /api/finance/summary
func FinanceSummaryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.Current(c)
		if err != nil {
			return err
		}
		q, err := queryFromCtx(c)
		if err != nil {
			return err
		}

		res, err := svc.FinanceSummary(c.UserContext(), user, q)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}
