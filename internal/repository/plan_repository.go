package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"agentsleads/internal/domain"
)

type PlanRepository interface {
	ListActive(ctx context.Context) ([]domain.Plan, error)
}

type planRepository struct {
	db *sqlx.DB
}

func NewPlanRepository(db *sqlx.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) ListActive(ctx context.Context) ([]domain.Plan, error) {
	plans := []domain.Plan{}
	query := `
		SELECT id, name, display_name, price_usd, is_active, created_at
		FROM plans
		WHERE is_active = true
		ORDER BY price_usd ASC`

	err := r.db.SelectContext(ctx, &plans, query)
	return plans, err
}
