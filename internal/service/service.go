package service

import (
	"github.com/redis/go-redis/v9"

	"agentsleads/internal/config"
	"agentsleads/internal/repository"
	"agentsleads/internal/service/auth"
	"agentsleads/internal/service/client"
	"agentsleads/internal/service/lead"
	"agentsleads/internal/service/notification"
)

type Services struct {
	Auth         auth.Service
	Lead         lead.Service
	Client       client.Service
	Notification notification.Service
}

// NewServices wires the services. redis and storage may be nil when those
// backends are down at boot.
func NewServices(repos *repository.Repositories, redis *redis.Client, storage client.ObjectStorage, hub *notification.Hub, cfg *config.Config) *Services {
	return &Services{
		Auth:         auth.NewService(repos.ClientUser, cfg),
		Lead:         lead.NewService(repos.Lead, repos.Message, redis, cfg.StatsCacheTTL),
		Client:       client.NewService(repos.Client, repos.AgentPrompt, repos.Plan, storage, cfg),
		Notification: notification.NewService(hub),
	}
}
