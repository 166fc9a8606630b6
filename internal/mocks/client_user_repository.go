package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"agentsleads/internal/domain"
)

type ClientUserRepository struct {
	mock.Mock
}

func (m *ClientUserRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.ClientUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientUser), args.Error(1)
}
