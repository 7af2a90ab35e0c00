package apperr

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Status maps an error to the HTTP status the API answers with.
func Status(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	e, ok := As(err)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch e.Kind {
	case KindInvalidIdentifier, KindValidation:
		return fiber.StatusBadRequest
	case KindAuth:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindPersistence:
		switch e.Reason {
		case ReasonNotFound:
			return fiber.StatusNotFound
		case ReasonReferential, ReasonConflict:
			return fiber.StatusConflict
		}
	}
	return fiber.StatusInternalServerError
}

// FiberErrorHandler renders every handler error as {"error": message}.
func FiberErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := Status(err)
		msg := "unexpected server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			msg = fe.Message
		} else if e, ok := As(err); ok {
			msg = e.Message
		}

		entry := log.WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"status": status,
		})
		if status >= fiber.StatusInternalServerError {
			entry.WithError(err).Error("request failed")
		} else {
			entry.WithError(err).Debug("request rejected")
		}

		return c.Status(status).JSON(fiber.Map{
			"error": msg,
		})
	}
}
