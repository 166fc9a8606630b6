package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"agentsleads/internal/config"
	"agentsleads/internal/domain"
	"agentsleads/internal/repository"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrUserNotFound = errors.New("user has no dashboard access")
)

type Service interface {
	ValidateAccessToken(token string) (*Claims, error)
	ResolveViewer(ctx context.Context, claims *Claims) (*domain.Viewer, error)
}

// Claims are the access token claims issued by the auth provider. Subject
// holds the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type service struct {
	clientUserRepo repository.ClientUserRepository
	cfg            *config.Config
}

func NewService(clientUserRepo repository.ClientUserRepository, cfg *config.Config) Service {
	return &service{
		clientUserRepo: clientUserRepo,
		cfg:            cfg,
	}
}

func (s *service) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ResolveViewer maps token claims to the viewer and its tenant scope. A
// client agent without a client is refused instead of being widened to all
// tenants.
func (s *service) ResolveViewer(ctx context.Context, claims *Claims) (*domain.Viewer, error) {
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidToken
	}

	cu, err := s.clientUserRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client user: %w", err)
	}
	if cu == nil || !cu.Role.IsValid() {
		return nil, ErrUserNotFound
	}

	if cu.Role == domain.RoleClientAgent && cu.ClientID == nil {
		return nil, domain.ErrForbiddenTenant
	}

	return domain.NewViewer(userID, claims.Email, cu), nil
}
