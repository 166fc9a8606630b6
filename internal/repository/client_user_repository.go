package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"agentsleads/internal/domain"
)

type ClientUserRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.ClientUser, error)
}

type clientUserRepository struct {
	db *sqlx.DB
}

func NewClientUserRepository(db *sqlx.DB) ClientUserRepository {
	return &clientUserRepository{db: db}
}

func (r *clientUserRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.ClientUser, error) {
	var cu domain.ClientUser
	query := `SELECT id, user_id, client_id, role, created_at, updated_at FROM client_users WHERE user_id = $1`

	err := r.db.GetContext(ctx, &cu, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cu, nil
}
