package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"agentsleads/internal/domain"
)

type PlanRepository struct {
	mock.Mock
}

func (m *PlanRepository) ListActive(ctx context.Context) ([]domain.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Plan), args.Error(1)
}
