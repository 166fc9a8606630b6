package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"agentsleads/internal/domain"
)

type AgentPromptRepository interface {
	ListByClient(ctx context.Context, clientID uuid.UUID, agentType domain.AgentType) ([]domain.AgentPrompt, error)
}

type agentPromptRepository struct {
	db *sqlx.DB
}

func NewAgentPromptRepository(db *sqlx.DB) AgentPromptRepository {
	return &agentPromptRepository{db: db}
}

func (r *agentPromptRepository) ListByClient(ctx context.Context, clientID uuid.UUID, agentType domain.AgentType) ([]domain.AgentPrompt, error) {
	prompts := []domain.AgentPrompt{}
	query := `
		SELECT id, name, content, agent_type, client_id, is_active, version, description, created_at, updated_at
		FROM agent_prompts
		WHERE client_id = $1 AND agent_type = $2
		ORDER BY version DESC`

	err := r.db.SelectContext(ctx, &prompts, query, clientID, agentType)
	return prompts, err
}
