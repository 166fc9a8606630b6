package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"agentsleads/internal/domain"
)

type MessageRepository interface {
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]domain.Message, error)
}

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]domain.Message, error) {
	messages := []domain.Message{}
	query := `
		SELECT id, lead_id, role, content, created_at
		FROM messages
		WHERE lead_id = $1
		ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &messages, query, leadID)
	return messages, err
}
