package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"agentsleads/internal/domain"
	"agentsleads/internal/service/client"
	"agentsleads/internal/service/notification"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorHandler maps fiber and domain errors to an ErrorResponse. Anything
// unmapped is logged with its trace id and reported as an internal error.
func NewErrorHandler(log *logrus.Entry) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return handleError(c, err, log)
	}
}

func handleError(c *fiber.Ctx, err error, log *logrus.Entry) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	errorCode := "INTERNAL_ERROR"

	if e := mapDomainError(err); e != nil {
		err = e
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message

		switch code {
		case fiber.StatusBadRequest:
			errorCode = "BAD_REQUEST"
		case fiber.StatusUnauthorized:
			errorCode = "UNAUTHORIZED"
		case fiber.StatusForbidden:
			errorCode = "FORBIDDEN"
		case fiber.StatusNotFound:
			errorCode = "NOT_FOUND"
		case fiber.StatusConflict:
			errorCode = "CONFLICT"
		case fiber.StatusUnprocessableEntity:
			errorCode = "VALIDATION_ERROR"
		case fiber.StatusServiceUnavailable:
			errorCode = "UNAVAILABLE"
		}
	}

	traceID := uuid.New().String()[:8]

	if code >= fiber.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"trace_id": traceID,
			"method":   c.Method(),
			"path":     c.Path(),
		}).Error("request failed")
	}

	return c.Status(code).JSON(ErrorResponse{
		Code:    errorCode,
		Message: message,
		TraceID: traceID,
	})
}

func mapDomainError(err error) *fiber.Error {
	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrLeadNotFound):
		return NotFound("Lead not found")
	case errors.Is(err, domain.ErrClientNotFound):
		return NotFound("Client not found")
	case errors.Is(err, domain.ErrForbiddenTenant):
		return Forbidden("Resource belongs to another client")
	case errors.Is(err, domain.ErrInvalidInput):
		return BadRequest("Invalid input")
	case errors.As(err, &validationErr):
		return fiber.NewError(fiber.StatusUnprocessableEntity, validationErr.Error())
	case errors.Is(err, client.ErrStorageUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, "Object storage unavailable")
	case errors.Is(err, notification.ErrHubClosed):
		return fiber.NewError(fiber.StatusServiceUnavailable, "Shutting down")
	}
	return nil
}

func NewError(code int, message string) *fiber.Error {
	return fiber.NewError(code, message)
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusForbidden, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}

func Conflict(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusConflict, message)
}
