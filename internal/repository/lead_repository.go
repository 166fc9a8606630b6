package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"agentsleads/internal/domain"
)

type LeadRepository interface {
	List(ctx context.Context, filter domain.LeadFilter, params domain.PaginationParams) ([]domain.LeadSummary, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error)
	Stats(ctx context.Context, tenantID *uuid.UUID, since time.Time) (*domain.LeadStats, error)
	ToggleBotPause(ctx context.Context, id uuid.UUID, paused bool, reason *string) (*domain.BotPauseResult, error)
}

type leadRepository struct {
	db *sqlx.DB
}

func NewLeadRepository(db *sqlx.DB) LeadRepository {
	return &leadRepository{db: db}
}

const leadSummaryColumns = `id, phone, classification, score, bot_paused, bot_paused_reason, bot_paused_at, created_at, updated_at`

const leadColumns = `id, phone, classification, score, client_id, bot_paused, bot_paused_reason, bot_paused_at,
	resumed_at, status, extracted_data, order_data, order_confirmed_at, created_at, updated_at`

func (r *leadRepository) List(ctx context.Context, filter domain.LeadFilter, params domain.PaginationParams) ([]domain.LeadSummary, int64, error) {
	params.Validate()

	where, args := leadFilterClause(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM leads` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM leads%s
		ORDER BY updated_at DESC NULLS LAST, created_at DESC
		LIMIT $%d OFFSET $%d`, leadSummaryColumns, where, len(args)+1, len(args)+2)

	var leads []domain.LeadSummary
	err := r.db.SelectContext(ctx, &leads, query, append(args, params.PageSize, params.Offset())...)
	return leads, total, err
}

func leadFilterClause(filter domain.LeadFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.TenantID != nil {
		add("client_id = $%d", *filter.TenantID)
	}
	if filter.Classification != nil {
		add("classification = $%d", string(*filter.Classification))
	}
	if filter.BotPaused != nil {
		add("bot_paused = $%d", *filter.BotPaused)
	}
	if filter.Search != "" {
		add("phone ILIKE $%d", "%"+escapeLike(filter.Search)+"%")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *leadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	err := r.db.GetContext(ctx, &lead, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepository) Stats(ctx context.Context, tenantID *uuid.UUID, since time.Time) (*domain.LeadStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE classification = 'hot') AS hot,
			COUNT(*) FILTER (WHERE classification = 'warm') AS warm,
			COUNT(*) FILTER (WHERE classification = 'cold') AS cold,
			COUNT(*) FILTER (WHERE created_at >= $1) AS today,
			COUNT(*) FILTER (WHERE bot_paused) AS paused,
			COUNT(*) FILTER (WHERE classification = 'hot' AND bot_paused) AS hot_human_active
		FROM leads
		WHERE ($2::uuid IS NULL OR client_id = $2)`

	var stats domain.LeadStats
	if err := r.db.GetContext(ctx, &stats, query, since, tenantID); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *leadRepository) ToggleBotPause(ctx context.Context, id uuid.UUID, paused bool, reason *string) (*domain.BotPauseResult, error) {
	var raw []byte
	query := `SELECT toggle_bot_pause($1, $2, $3)`

	if err := r.db.QueryRowxContext(ctx, query, id, paused, reason).Scan(&raw); err != nil {
		return nil, err
	}

	var result domain.BotPauseResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode toggle_bot_pause result: %w", err)
	}
	return &result, nil
}
