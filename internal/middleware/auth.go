package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"agentsleads/internal/domain"
	"agentsleads/internal/service/auth"
)

const ViewerContextKey = "viewer"

// AuthRequired validates the bearer token and stores the resolved viewer in
// the request locals. EventSource cannot set headers, so the token is also
// accepted as the access_token query parameter.
func AuthRequired(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}

		claims, err := authService.ValidateAccessToken(token)
		if err != nil {
			return Unauthorized("Invalid or expired token")
		}

		viewer, err := authService.ResolveViewer(c.Context(), claims)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidToken):
				return Unauthorized("User not found")
			case errors.Is(err, domain.ErrForbiddenTenant):
				return Forbidden("User is not assigned to a client")
			}
			return err
		}

		c.Locals(ViewerContextKey, viewer)

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		if token := c.Query("access_token"); token != "" {
			return token, nil
		}
		return "", Unauthorized("Missing authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", Unauthorized("Invalid authorization header format")
	}
	return parts[1], nil
}

func GetViewer(c *fiber.Ctx) *domain.Viewer {
	viewer, ok := c.Locals(ViewerContextKey).(*domain.Viewer)
	if !ok {
		return nil
	}
	return viewer
}

// CurrentViewer is GetViewer for handlers behind AuthRequired.
func CurrentViewer(c *fiber.Ctx) (*domain.Viewer, error) {
	viewer := GetViewer(c)
	if viewer == nil {
		return nil, Unauthorized("User not authenticated")
	}
	return viewer, nil
}
