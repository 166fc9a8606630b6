package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"agentsleads/internal/config"
	"agentsleads/internal/domain"
	"agentsleads/internal/handler"
	"agentsleads/internal/middleware"
	"agentsleads/internal/pkg/i18n"
	applogger "agentsleads/internal/pkg/logger"
	"agentsleads/internal/pkg/metrics"
	"agentsleads/internal/realtime"
	"agentsleads/internal/repository"
	"agentsleads/internal/service"
	"agentsleads/internal/service/auth"
	"agentsleads/internal/service/client"
	"agentsleads/internal/service/notification"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := applogger.NewLogger("agentsleads-api", cfg.LogLevel)
	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)

	if err := i18n.LoadTranslations(cfg.LocalesPath); err != nil {
		log.WithError(err).Warn("Failed to load translations, labels fall back to keys")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Failed to connect to Redis, notifications are kept in memory and stats are not cached")
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var storage client.ObjectStorage
	minioClient, err := config.NewMinIOClient(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Failed to connect to MinIO, catalog upload will not work")
	}
	if minioClient != nil {
		storage = minioClient
	}

	source := realtime.NewPGSource(
		cfg.DatabaseURL,
		cfg.ListenerMinReconnect,
		cfg.ListenerMaxReconnect,
		cfg.StreamOpenTimeout,
		log.Component("realtime"),
	)
	hub := notification.NewHub(source, storeFactory(redisClient, m, log), m, log.Component("notifications"), cfg.SessionIdleTimeout)
	go hub.Run(ctx)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redisClient, storage, hub, cfg)
	handlers := handler.NewHandlers(services, cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.NewErrorHandler(log.Component("http")),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Accept-Language, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))
	app.Use(m.Middleware())

	setupRoutes(app, handlers, services.Auth)

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")

		// ends open SSE streams so the server can drain
		hub.Close()

		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Failed to shut down server")
		}
	}()

	log.WithField("port", cfg.Port).Info("Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}

func storeFactory(redisClient *redis.Client, m *metrics.Metrics, log *applogger.Logger) notification.StoreFactory {
	if redisClient == nil {
		return notification.NewMemoryStoreFactory()
	}

	storeLog := log.Component("notification_store")
	return func(profileID uuid.UUID) notification.Store {
		return repository.NewNotificationStore(redisClient, profileID, m, storeLog)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")

	protected := v1.Group("", middleware.AuthRequired(authService))

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Get("/stream", h.Notification.Stream)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
	notifications.Delete("/", h.Notification.ClearAll)

	leads := protected.Group("/leads")
	leads.Get("/", h.Lead.List)
	leads.Get("/stats", h.Lead.Stats)
	leads.Get("/:leadId", h.Lead.Get)
	leads.Get("/:leadId/messages", h.Lead.Messages)
	leads.Patch("/:leadId/bot-pause", h.Lead.ToggleBotPause)

	protected.Get("/plans", h.Client.ListPlans)

	admin := protected.Group("/admin", middleware.RequireRole(domain.RoleSuperAdmin))
	clients := admin.Group("/clients")
	clients.Get("/", h.Client.List)
	clients.Post("/", h.Client.Create)
	clients.Get("/:clientId", h.Client.Get)
	clients.Put("/:clientId", h.Client.Update)
	clients.Post("/:clientId/catalog", h.Client.UploadCatalog)
}
