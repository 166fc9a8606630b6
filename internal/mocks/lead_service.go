package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"agentsleads/internal/domain"
)

type LeadService struct {
	mock.Mock
}

func (m *LeadService) List(ctx context.Context, viewer *domain.Viewer, filter domain.LeadFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.LeadSummary], error) {
	args := m.Called(ctx, viewer, filter, params)
	return args.Get(0).(domain.PaginatedResponse[domain.LeadSummary]), args.Error(1)
}

func (m *LeadService) GetByID(ctx context.Context, viewer *domain.Viewer, id uuid.UUID) (*domain.Lead, error) {
	args := m.Called(ctx, viewer, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *LeadService) Messages(ctx context.Context, viewer *domain.Viewer, id uuid.UUID) ([]domain.Message, error) {
	args := m.Called(ctx, viewer, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *LeadService) Stats(ctx context.Context, viewer *domain.Viewer) (*domain.LeadStats, error) {
	args := m.Called(ctx, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeadStats), args.Error(1)
}

func (m *LeadService) ToggleBotPause(ctx context.Context, viewer *domain.Viewer, id uuid.UUID, input domain.ToggleBotPauseInput) (*domain.BotPauseResult, error) {
	args := m.Called(ctx, viewer, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BotPauseResult), args.Error(1)
}
