package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"agentsleads/internal/domain"
)

type LeadRepository struct {
	mock.Mock
}

func (m *LeadRepository) List(ctx context.Context, filter domain.LeadFilter, params domain.PaginationParams) ([]domain.LeadSummary, int64, error) {
	args := m.Called(ctx, filter, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.LeadSummary), args.Get(1).(int64), args.Error(2)
}

func (m *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *LeadRepository) Stats(ctx context.Context, tenantID *uuid.UUID, since time.Time) (*domain.LeadStats, error) {
	args := m.Called(ctx, tenantID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeadStats), args.Error(1)
}

func (m *LeadRepository) ToggleBotPause(ctx context.Context, id uuid.UUID, paused bool, reason *string) (*domain.BotPauseResult, error) {
	args := m.Called(ctx, id, paused, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BotPauseResult), args.Error(1)
}
