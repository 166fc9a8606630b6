package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agentsleads/internal/config"
	"agentsleads/internal/domain"
	"agentsleads/internal/mocks"
)

const testSecret = "test-secret"

func newTestService() (Service, *mocks.ClientUserRepository) {
	repo := new(mocks.ClientUserRepository)
	return NewService(repo, &config.Config{JWTSecret: testSecret}), repo
}

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, subject string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(method, Claims{
		Email: "agent@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestValidateAccessToken(t *testing.T) {
	svc, _ := newTestService()
	userID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), userID.String(), time.Now().Add(time.Hour))

		claims, err := svc.ValidateAccessToken(token)

		require.NoError(t, err)
		assert.Equal(t, "agent@example.com", claims.Email)
		id, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, userID, id)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), userID.String(), time.Now().Add(-time.Minute))

		_, err := svc.ValidateAccessToken(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte("other"), userID.String(), time.Now().Add(time.Hour))

		_, err := svc.ValidateAccessToken(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other algorithm", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS512, []byte(testSecret), userID.String(), time.Now().Add(time.Hour))

		_, err := svc.ValidateAccessToken(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("subject is not a user id", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), "service-account", time.Now().Add(time.Hour))

		_, err := svc.ValidateAccessToken(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")

		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestResolveViewer(t *testing.T) {
	userID := uuid.New()
	tenant := uuid.New()
	claims := &Claims{Email: "agent@example.com", RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()}}

	tests := []struct {
		name       string
		row        *domain.ClientUser
		repoErr    error
		wantErr    error
		wantTenant *uuid.UUID
	}{
		{
			name:       "client agent is scoped to its client",
			row:        &domain.ClientUser{UserID: userID, ClientID: &tenant, Role: domain.RoleClientAgent},
			wantTenant: &tenant,
		},
		{
			name: "super admin sees every tenant",
			row:  &domain.ClientUser{UserID: userID, ClientID: &tenant, Role: domain.RoleSuperAdmin},
		},
		{
			name:    "client agent without client is refused",
			row:     &domain.ClientUser{UserID: userID, Role: domain.RoleClientAgent},
			wantErr: domain.ErrForbiddenTenant,
		},
		{
			name:    "no client user row",
			wantErr: ErrUserNotFound,
		},
		{
			name:    "unknown role",
			row:     &domain.ClientUser{UserID: userID, Role: "viewer"},
			wantErr: ErrUserNotFound,
		},
		{
			name:    "repository failure",
			repoErr: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()
			if tt.row != nil {
				repo.On("GetByUserID", mock.Anything, userID).Return(tt.row, nil)
			} else {
				repo.On("GetByUserID", mock.Anything, userID).Return(nil, tt.repoErr)
			}

			viewer, err := svc.ResolveViewer(context.Background(), claims)

			switch {
			case tt.repoErr != nil:
				assert.ErrorIs(t, err, tt.repoErr)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, viewer)
			default:
				require.NoError(t, err)
				assert.Equal(t, userID, viewer.UserID)
				assert.Equal(t, tt.row.Role, viewer.Role)
				assert.Equal(t, tt.wantTenant, viewer.TenantID)
			}
			repo.AssertExpectations(t)
		})
	}
}
