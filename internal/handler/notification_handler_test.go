package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentsleads/internal/domain"
	"agentsleads/internal/pkg/i18n"
	"agentsleads/internal/pkg/logger"
	"agentsleads/internal/pkg/metrics"
	"agentsleads/internal/realtime"
	"agentsleads/internal/service/notification"
)

type notificationFixture struct {
	app    *fiber.App
	hub    *notification.Hub
	source *realtime.MemorySource
	viewer *domain.Viewer
}

func setupNotificationApp(t *testing.T) *notificationFixture {
	t.Helper()
	require.NoError(t, i18n.LoadTranslations("../../locales"))

	source := realtime.NewMemorySource()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	hub := notification.NewHub(source, notification.NewMemoryStoreFactory(), m, logger.NewNop().Component("notifications"), time.Minute)
	t.Cleanup(hub.Close)

	viewer := &domain.Viewer{UserID: uuid.New(), Role: domain.RoleSuperAdmin}
	h := NewNotificationHandler(notification.NewService(hub), "es", 50*time.Millisecond)

	app := newTestApp(viewer)
	app.Get("/notifications", h.List)
	app.Get("/notifications/unread-count", h.GetUnreadCount)
	app.Get("/notifications/stream", h.Stream)
	app.Post("/notifications/mark-all-read", h.MarkAllAsRead)
	app.Delete("/notifications", h.ClearAll)

	return &notificationFixture{app: app, hub: hub, source: source, viewer: viewer}
}

func hotInsert(id string) domain.LeadChangeEvent {
	return domain.LeadChangeEvent{
		Kind: domain.ChangeInsert,
		New:  domain.LeadSnapshot{ID: id, Phone: "+5215550000", Classification: domain.ClassificationHot},
	}
}

// publish delivers ev once the viewer's session is mounted and subscribed.
func (f *notificationFixture) publish(ev domain.LeadChangeEvent) {
	for f.source.Open() == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	f.source.Publish(ev)
}

// unread returns -1 when the request fails, so it is safe to poll from
// assert.Eventually.
func (f *notificationFixture) unread() int {
	resp, err := f.app.Test(httptest.NewRequest("GET", "/notifications/unread-count", nil))
	if err != nil || resp.StatusCode != fiber.StatusOK {
		return -1
	}
	defer resp.Body.Close()

	var body struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return -1
	}
	return body.Count
}

func TestNotificationHandler_ListEmpty(t *testing.T) {
	f := setupNotificationApp(t)

	resp, err := f.app.Test(httptest.NewRequest("GET", "/notifications", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var feed domain.NotificationFeedView
	decodeBody(t, resp, &feed)
	assert.Empty(t, feed.Data)
	assert.Zero(t, feed.Unread)
	assert.Equal(t, 1, f.hub.Len())
}

func TestNotificationHandler_LiveFeed(t *testing.T) {
	f := setupNotificationApp(t)
	assert.Zero(t, f.unread())

	f.publish(hotInsert("L-100"))
	require.Eventually(t, func() bool { return f.unread() == 1 }, time.Second, 10*time.Millisecond)

	req := httptest.NewRequest("GET", "/notifications", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	resp, err := f.app.Test(req)
	require.NoError(t, err)

	var feed domain.NotificationFeedView
	decodeBody(t, resp, &feed)
	require.Len(t, feed.Data, 1)
	assert.Equal(t, "Hot lead", feed.Data[0].Label)
	assert.Equal(t, "/dashboard/leads/L-100", feed.Data[0].Href)
	assert.Equal(t, "just now", feed.Data[0].RelativeTime)

	resp, err = f.app.Test(httptest.NewRequest("POST", "/notifications/mark-all-read", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Zero(t, f.unread())

	resp, err = f.app.Test(httptest.NewRequest("DELETE", "/notifications", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = f.app.Test(httptest.NewRequest("GET", "/notifications?locale=es", nil))
	require.NoError(t, err)
	decodeBody(t, resp, &feed)
	assert.Empty(t, feed.Data)
}

func TestNotificationHandler_Locale(t *testing.T) {
	f := setupNotificationApp(t)
	h := NewNotificationHandler(nil, "es", 0)

	tests := []struct {
		url            string
		acceptLanguage string
		want           string
	}{
		{"/", "", "es"},
		{"/?locale=en", "es", "en"},
		{"/?locale=pt", "pt-BR, en;q=0.8", "en"},
		{"/", "fr-FR", "es"},
	}

	var got string
	f.app.Get("/locale-probe", func(c *fiber.Ctx) error {
		got = h.locale(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	for _, tt := range tests {
		req := httptest.NewRequest("GET", strings.Replace(tt.url, "/", "/locale-probe", 1), nil)
		if tt.acceptLanguage != "" {
			req.Header.Set("Accept-Language", tt.acceptLanguage)
		}
		_, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.url+" "+tt.acceptLanguage)
	}
}

func TestNotificationHandler_Stream(t *testing.T) {
	f := setupNotificationApp(t)

	go func() {
		// let the initial frame go out first
		time.Sleep(100 * time.Millisecond)
		f.publish(hotInsert("L-200"))
		// leave time for the change frame and a keep-alive before shutdown
		time.Sleep(200 * time.Millisecond)
		f.hub.Close()
	}()

	resp, err := f.app.Test(httptest.NewRequest("GET", "/notifications/stream", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	stream := string(body)

	assert.True(t, strings.HasPrefix(stream, "event: notifications\ndata: {"), stream)
	assert.GreaterOrEqual(t, strings.Count(stream, "event: notifications\n"), 2)
	assert.Contains(t, stream, `"lead_id":"L-200"`)
	assert.Contains(t, stream, ": keep-alive\n\n")
}

func TestNotificationHandler_HubClosed(t *testing.T) {
	f := setupNotificationApp(t)
	f.hub.Close()

	resp, err := f.app.Test(httptest.NewRequest("GET", "/notifications", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
