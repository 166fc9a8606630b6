package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"agentsleads/internal/config"
	"agentsleads/internal/domain"
	"agentsleads/internal/repository"
)

var ErrStorageUnavailable = errors.New("object storage unavailable")

const salesPromptPrefix = "Sales Agent — "

// ObjectStorage is the subset of *minio.Client used for catalogs.
type ObjectStorage interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type Service interface {
	List(ctx context.Context) ([]domain.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientDetail, error)
	Create(ctx context.Context, input domain.CreateClientInput) (*domain.ClientDetail, error)
	Update(ctx context.Context, id uuid.UUID, input domain.UpdateClientInput) (*domain.Client, error)
	UploadCatalog(ctx context.Context, id uuid.UUID, fileName string, fileSize int64, contentType string, reader io.Reader) (*domain.Client, error)
	ListPlans(ctx context.Context) ([]domain.Plan, error)
}

type service struct {
	clientRepo repository.ClientRepository
	promptRepo repository.AgentPromptRepository
	planRepo   repository.PlanRepository
	storage    ObjectStorage
	cfg        *config.Config
}

// NewService builds the client service. storage may be nil, in which case
// catalog uploads fail with ErrStorageUnavailable.
func NewService(clientRepo repository.ClientRepository, promptRepo repository.AgentPromptRepository, planRepo repository.PlanRepository, storage ObjectStorage, cfg *config.Config) Service {
	return &service{
		clientRepo: clientRepo,
		promptRepo: promptRepo,
		planRepo:   planRepo,
		storage:    storage,
		cfg:        cfg,
	}
}

func (s *service) List(ctx context.Context) ([]domain.Client, error) {
	return s.clientRepo.List(ctx)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientDetail, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if client == nil {
		return nil, domain.ErrClientNotFound
	}

	prompts, err := s.promptRepo.ListByClient(ctx, id, domain.AgentTypeSales)
	if err != nil {
		return nil, fmt.Errorf("failed to get agent prompts: %w", err)
	}

	return &domain.ClientDetail{Client: *client, AgentPrompts: prompts}, nil
}

func (s *service) Create(ctx context.Context, input domain.CreateClientInput) (*domain.ClientDetail, error) {
	client := &domain.Client{
		ID:                 uuid.New(),
		Name:               strings.TrimSpace(input.Name),
		BusinessType:       trimmed(input.BusinessType),
		Active:             true,
		ChannelPhoneNumber: strings.TrimSpace(input.ChannelPhoneNumber),
		PlanID:             input.PlanID,
		ProductMode:        input.ProductMode,
		CatalogURL:         trimmed(input.CatalogURL),
	}
	if input.Active != nil {
		client.Active = *input.Active
	}

	var prompt *domain.AgentPrompt
	if content := trimmed(input.SalesPrompt); content != nil {
		prompt = &domain.AgentPrompt{
			ID:        uuid.New(),
			Name:      salesPromptPrefix + client.Name,
			Content:   *content,
			AgentType: domain.AgentTypeSales,
			IsActive:  true,
			Version:   1,
		}
	}

	if err := s.clientRepo.Create(ctx, client, prompt); err != nil {
		return nil, err
	}

	detail := &domain.ClientDetail{Client: *client, AgentPrompts: []domain.AgentPrompt{}}
	if prompt != nil {
		detail.AgentPrompts = append(detail.AgentPrompts, *prompt)
	}
	return detail, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input domain.UpdateClientInput) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if client == nil {
		return nil, domain.ErrClientNotFound
	}

	client.Name = strings.TrimSpace(input.Name)
	client.BusinessType = trimmed(input.BusinessType)
	client.ChannelPhoneNumber = strings.TrimSpace(input.ChannelPhoneNumber)
	client.PlanID = input.PlanID
	client.ProductMode = input.ProductMode
	client.CatalogURL = trimmed(input.CatalogURL)
	client.Active = input.Active

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *service) UploadCatalog(ctx context.Context, id uuid.UUID, fileName string, fileSize int64, contentType string, reader io.Reader) (*domain.Client, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if client == nil {
		return nil, domain.ErrClientNotFound
	}

	objectName := fmt.Sprintf("catalogs/%s/%s%s", id, uuid.New(), strings.ToLower(path.Ext(fileName)))

	_, err = s.storage.PutObject(ctx, s.cfg.MinIOCatalogBucket, objectName, reader, fileSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	catalogURL := s.publicURL(objectName)
	if err := s.clientRepo.SetCatalogURL(ctx, id, catalogURL); err != nil {
		_ = s.storage.RemoveObject(ctx, s.cfg.MinIOCatalogBucket, objectName, minio.RemoveObjectOptions{})
		return nil, err
	}

	client.CatalogURL = &catalogURL
	return client, nil
}

func (s *service) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return s.planRepo.ListActive(ctx)
}

func (s *service) publicURL(objectName string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOCatalogBucket, (&url.URL{Path: objectName}).EscapedPath())
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
