package lead

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"agentsleads/internal/domain"
	"agentsleads/internal/repository"
)

const statsCachePrefix = "agentsleads:lead_stats:"

type Service interface {
	List(ctx context.Context, viewer *domain.Viewer, filter domain.LeadFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.LeadSummary], error)
	GetByID(ctx context.Context, viewer *domain.Viewer, id uuid.UUID) (*domain.Lead, error)
	Messages(ctx context.Context, viewer *domain.Viewer, id uuid.UUID) ([]domain.Message, error)
	Stats(ctx context.Context, viewer *domain.Viewer) (*domain.LeadStats, error)
	ToggleBotPause(ctx context.Context, viewer *domain.Viewer, id uuid.UUID, input domain.ToggleBotPauseInput) (*domain.BotPauseResult, error)
}

type service struct {
	leadRepo    repository.LeadRepository
	messageRepo repository.MessageRepository
	redis       *redis.Client
	statsTTL    time.Duration
	now         func() time.Time
}

// NewService builds the lead service. redis may be nil, which disables the
// stats cache.
func NewService(leadRepo repository.LeadRepository, messageRepo repository.MessageRepository, redis *redis.Client, statsTTL time.Duration) Service {
	return &service{
		leadRepo:    leadRepo,
		messageRepo: messageRepo,
		redis:       redis,
		statsTTL:    statsTTL,
		now:         time.Now,
	}
}

func (s *service) List(ctx context.Context, viewer *domain.Viewer, filter domain.LeadFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.LeadSummary], error) {
	filter.TenantID = viewer.TenantID
	filter.Search = strings.TrimSpace(filter.Search)
	params.Validate()

	leads, total, err := s.leadRepo.List(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.LeadSummary]{}, fmt.Errorf("failed to list leads: %w", err)
	}

	return domain.NewPaginatedResponse(leads, params.Page, params.PageSize, total), nil
}

// GetByID hides leads of other tenants behind ErrLeadNotFound.
func (s *service) GetByID(ctx context.Context, viewer *domain.Viewer, id uuid.UUID) (*domain.Lead, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	if lead == nil || !viewer.CanAccess(lead.ClientID) {
		return nil, domain.ErrLeadNotFound
	}
	return lead, nil
}

func (s *service) Messages(ctx context.Context, viewer *domain.Viewer, id uuid.UUID) ([]domain.Message, error) {
	if _, err := s.GetByID(ctx, viewer, id); err != nil {
		return nil, err
	}
	return s.messageRepo.ListByLead(ctx, id)
}

func (s *service) Stats(ctx context.Context, viewer *domain.Viewer) (*domain.LeadStats, error) {
	cacheKey := statsCacheKey(viewer.TenantID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var stats domain.LeadStats
			if json.Unmarshal(cached, &stats) == nil {
				return &stats, nil
			}
		}
	}

	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := s.leadRepo.Stats(ctx, viewer.TenantID, midnight)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead stats: %w", err)
	}

	if s.redis != nil {
		if data, err := json.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, cacheKey, data, s.statsTTL).Err()
		}
	}

	return stats, nil
}

func (s *service) ToggleBotPause(ctx context.Context, viewer *domain.Viewer, id uuid.UUID, input domain.ToggleBotPauseInput) (*domain.BotPauseResult, error) {
	if input.BotPaused == nil {
		return nil, domain.ErrInvalidInput
	}

	lead, err := s.GetByID(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	var reason *string
	if input.Reason != nil {
		if r := strings.TrimSpace(*input.Reason); r != "" {
			reason = &r
		}
	}

	result, err := s.leadRepo.ToggleBotPause(ctx, id, *input.BotPaused, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle bot pause: %w", err)
	}
	if result.Error != "" {
		if strings.Contains(strings.ToLower(result.Error), "not found") {
			return nil, domain.ErrLeadNotFound
		}
		return nil, fmt.Errorf("toggle_bot_pause: %s", result.Error)
	}

	s.invalidateStats(ctx, lead.ClientID)
	return result, nil
}

// paused counts change for the lead's tenant and for the all-tenants view
func (s *service) invalidateStats(ctx context.Context, clientID *uuid.UUID) {
	if s.redis == nil {
		return
	}
	keys := []string{statsCacheKey(nil)}
	if clientID != nil {
		keys = append(keys, statsCacheKey(clientID))
	}
	_ = s.redis.Del(ctx, keys...).Err()
}

func statsCacheKey(tenantID *uuid.UUID) string {
	if tenantID == nil {
		return statsCachePrefix + "all"
	}
	return statsCachePrefix + tenantID.String()
}
