package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"agentsleads/internal/config"
	"agentsleads/internal/domain"
	"agentsleads/internal/service"
)

type Handlers struct {
	Notification *NotificationHandler
	Lead         *LeadHandler
	Client       *ClientHandler
}

func NewHandlers(services *service.Services, cfg *config.Config) *Handlers {
	validator := NewValidator()

	return &Handlers{
		Notification: NewNotificationHandler(services.Notification, cfg.DefaultLocale, cfg.SSEKeepAlive),
		Lead:         NewLeadHandler(services.Lead, validator),
		Client:       NewClientHandler(services.Client, validator, cfg.CatalogMaxSize),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", domain.DefaultPageSize); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}

func defaultDuration(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
