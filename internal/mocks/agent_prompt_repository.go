package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"agentsleads/internal/domain"
)

type AgentPromptRepository struct {
	mock.Mock
}

func (m *AgentPromptRepository) ListByClient(ctx context.Context, clientID uuid.UUID, agentType domain.AgentType) ([]domain.AgentPrompt, error) {
	args := m.Called(ctx, clientID, agentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AgentPrompt), args.Error(1)
}
