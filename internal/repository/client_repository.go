package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"agentsleads/internal/domain"
)

type ClientRepository interface {
	List(ctx context.Context) ([]domain.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	// Create inserts client and, when prompt is not nil, the prompt linked as
	// the client's sales prompt. Both happen in one transaction.
	Create(ctx context.Context, client *domain.Client, prompt *domain.AgentPrompt) error
	Update(ctx context.Context, client *domain.Client) error
	SetCatalogURL(ctx context.Context, id uuid.UUID, url string) error
}

type clientRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, name, business_type, active, channel_phone_number, plan_id, product_mode, catalog_url,
	llm_temperature, conversation_history_limit, sales_prompt_id, notification_phone, created_at, updated_at`

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	clients := []domain.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &clients, query)
	return clients, err
}

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	err := r.db.GetContext(ctx, &client, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client, prompt *domain.AgentPrompt) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO clients (id, name, business_type, active, channel_phone_number, plan_id, product_mode, catalog_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING llm_temperature, conversation_history_limit, created_at`

	err = tx.QueryRowxContext(ctx, query,
		client.ID, client.Name, client.BusinessType, client.Active,
		client.ChannelPhoneNumber, client.PlanID, client.ProductMode, client.CatalogURL,
	).Scan(&client.LLMTemperature, &client.ConversationHistoryLimit, &client.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}

	if prompt != nil {
		promptQuery := `
			INSERT INTO agent_prompts (id, name, content, agent_type, client_id, is_active, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at`

		err = tx.QueryRowxContext(ctx, promptQuery,
			prompt.ID, prompt.Name, prompt.Content, prompt.AgentType,
			client.ID, prompt.IsActive, prompt.Version,
		).Scan(&prompt.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert sales prompt: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE clients SET sales_prompt_id = $1 WHERE id = $2`, prompt.ID, client.ID); err != nil {
			return fmt.Errorf("failed to link sales prompt: %w", err)
		}
		client.SalesPromptID = &prompt.ID
		prompt.ClientID = &client.ID
	}

	return tx.Commit()
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients SET
			name = $2, business_type = $3, active = $4, channel_phone_number = $5,
			plan_id = $6, product_mode = $7, catalog_url = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		client.ID, client.Name, client.BusinessType, client.Active,
		client.ChannelPhoneNumber, client.PlanID, client.ProductMode, client.CatalogURL,
	).Scan(&client.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrClientNotFound
	}
	return err
}

func (r *clientRepository) SetCatalogURL(ctx context.Context, id uuid.UUID, url string) error {
	query := `UPDATE clients SET catalog_url = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, url)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}
