package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"agentsleads/internal/domain"
	"agentsleads/internal/middleware"
	"agentsleads/internal/pkg/i18n"
	"agentsleads/internal/service/notification"
)

const defaultKeepAlive = 25 * time.Second

type NotificationHandler struct {
	notifService  notification.Service
	defaultLocale string
	keepAlive     time.Duration
}

func NewNotificationHandler(notifService notification.Service, defaultLocale string, keepAlive time.Duration) *NotificationHandler {
	return &NotificationHandler{
		notifService:  notifService,
		defaultLocale: defaultLocale,
		keepAlive:     defaultDuration(keepAlive, defaultKeepAlive),
	}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	viewer, err := middleware.CurrentViewer(c)
	if err != nil {
		return err
	}

	feed, err := h.notifService.List(c.Context(), viewer, h.locale(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(feed)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	viewer, err := middleware.CurrentViewer(c)
	if err != nil {
		return err
	}

	count, err := h.notifService.UnreadCount(c.Context(), viewer)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": count,
	})
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	viewer, err := middleware.CurrentViewer(c)
	if err != nil {
		return err
	}

	if err := h.notifService.MarkAllRead(c.Context(), viewer); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) ClearAll(c *fiber.Ctx) error {
	viewer, err := middleware.CurrentViewer(c)
	if err != nil {
		return err
	}

	if err := h.notifService.ClearAll(c.Context(), viewer); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Stream pushes the rendered feed as a "notifications" server-sent event
// whenever it changes, starting with the current feed.
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	viewer, err := middleware.CurrentViewer(c)
	if err != nil {
		return err
	}
	locale := h.locale(c)

	changes, cancel, err := h.notifService.Watch(c.Context(), viewer)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	// the request context is recycled once the handler returns, so the writer
	// only uses values captured here
	svc := h.notifService
	keepAlive := h.keepAlive

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		if err := writeFeedEvent(w, svc, viewer, locale); err != nil {
			return
		}

		for {
			select {
			case _, ok := <-changes:
				if !ok {
					return
				}
				if err := writeFeedEvent(w, svc, viewer, locale); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}

func writeFeedEvent(w *bufio.Writer, svc notification.Service, viewer *domain.Viewer, locale string) error {
	feed, err := svc.List(context.Background(), viewer, locale)
	if err != nil {
		return err
	}

	data, err := json.Marshal(feed)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: notifications\ndata: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}

// locale picks the ?locale= query value or the first Accept-Language tag
// that has translations, falling back to the default locale.
func (h *NotificationHandler) locale(c *fiber.Ctx) string {
	candidates := []string{c.Query("locale")}
	for _, part := range strings.Split(c.Get(fiber.HeaderAcceptLanguage), ",") {
		candidates = append(candidates, part)
	}

	for _, candidate := range candidates {
		tag := strings.TrimSpace(strings.SplitN(candidate, ";", 2)[0])
		tag = strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if tag != "" && i18n.Supported(tag) {
			return tag
		}
	}
	return h.defaultLocale
}
