package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentsleads/internal/domain"
	"agentsleads/internal/pkg/logger"
	"agentsleads/internal/service/auth"
	"agentsleads/internal/service/client"
	"agentsleads/internal/service/notification"
)

type stubAuth struct {
	viewers    map[string]*domain.Viewer
	resolveErr error
}

func (s *stubAuth) ValidateAccessToken(token string) (*auth.Claims, error) {
	if _, ok := s.viewers[token]; !ok {
		return nil, auth.ErrInvalidToken
	}
	claims := &auth.Claims{}
	claims.Subject = token
	return claims, nil
}

func (s *stubAuth) ResolveViewer(_ context.Context, claims *auth.Claims) (*domain.Viewer, error) {
	if s.resolveErr != nil {
		return nil, s.resolveErr
	}
	return s.viewers[claims.Subject], nil
}

func newApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: NewErrorHandler(logger.NewNop().Component("http")),
	})
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(GetViewer(c))
	})
	app.Get("/", handlers...)
	return app
}

func errorCode(t *testing.T, app *fiber.App, url, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", url, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body.Code
}

func TestAuthRequired(t *testing.T) {
	admin := &domain.Viewer{UserID: uuid.New(), Role: domain.RoleSuperAdmin}
	stub := &stubAuth{viewers: map[string]*domain.Viewer{"good": admin}}
	app := newApp(AuthRequired(stub))

	status, _ := errorCode(t, app, "/", "Bearer good")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = errorCode(t, app, "/?access_token=good", "")
	assert.Equal(t, fiber.StatusOK, status)

	status, code := errorCode(t, app, "/", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", code)

	status, _ = errorCode(t, app, "/", "Token good")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = errorCode(t, app, "/", "Bearer bad")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAuthRequired_ResolveErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{auth.ErrUserNotFound, fiber.StatusUnauthorized},
		{domain.ErrForbiddenTenant, fiber.StatusForbidden},
		{errors.New("db down"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		stub := &stubAuth{viewers: map[string]*domain.Viewer{"good": nil}, resolveErr: tt.err}
		app := newApp(AuthRequired(stub))

		status, _ := errorCode(t, app, "/", "Bearer good")
		assert.Equal(t, tt.want, status, tt.err.Error())
	}
}

func TestRequireRole(t *testing.T) {
	agent := &domain.Viewer{UserID: uuid.New(), Role: domain.RoleClientAgent}
	admin := &domain.Viewer{UserID: uuid.New(), Role: domain.RoleSuperAdmin}
	stub := &stubAuth{viewers: map[string]*domain.Viewer{"agent": agent, "admin": admin}}
	app := newApp(AuthRequired(stub), RequireRole(domain.RoleSuperAdmin))

	status, code := errorCode(t, app, "/", "Bearer agent")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", code)

	status, _ = errorCode(t, app, "/", "Bearer admin")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = errorCode(t, newApp(RequireRole(domain.RoleSuperAdmin)), "/", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("lookup: %w", domain.ErrLeadNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrClientNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrForbiddenTenant, fiber.StatusForbidden, "FORBIDDEN"},
		{domain.ErrInvalidInput, fiber.StatusBadRequest, "BAD_REQUEST"},
		{&domain.ValidationError{Field: "name", Message: "failed on 'required' validation"}, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{client.ErrStorageUnavailable, fiber.StatusServiceUnavailable, "UNAVAILABLE"},
		{notification.ErrHubClosed, fiber.StatusServiceUnavailable, "UNAVAILABLE"},
		{Conflict("taken"), fiber.StatusConflict, "CONFLICT"},
		{errors.New("boom"), fiber.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		err := tt.err
		app := newApp(func(c *fiber.Ctx) error { return err })

		status, code := errorCode(t, app, "/", "")
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}
