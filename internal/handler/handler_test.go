package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"agentsleads/internal/domain"
	"agentsleads/internal/middleware"
	"agentsleads/internal/pkg/logger"
)

// newTestApp builds an app whose requests are authenticated as viewer.
func newTestApp(viewer *domain.Viewer) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.NewErrorHandler(logger.NewNop().Component("http")),
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.ViewerContextKey, viewer)
		return c.Next()
	})
	return app
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out), string(body))
}
