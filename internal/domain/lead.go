package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Classification string

const (
	ClassificationHot          Classification = "hot"
	ClassificationWarm         Classification = "warm"
	ClassificationCold         Classification = "cold"
	ClassificationUnclassified Classification = ""
)

func (c Classification) IsValid() bool {
	switch c {
	case ClassificationHot, ClassificationWarm, ClassificationCold:
		return true
	}
	return false
}

type LeadStatus string

const (
	LeadStatusBotActive   LeadStatus = "bot_active"
	LeadStatusHumanActive LeadStatus = "human_active"
	LeadStatusResolved    LeadStatus = "resolved"
	LeadStatusLost        LeadStatus = "lost"
)

type Lead struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	Phone            string          `json:"phone" db:"phone"`
	Classification   *Classification `json:"classification" db:"classification"`
	Score            *int            `json:"score" db:"score"`
	ClientID         *uuid.UUID      `json:"client_id" db:"client_id"`
	BotPaused        bool            `json:"bot_paused" db:"bot_paused"`
	BotPausedReason  *string         `json:"bot_paused_reason" db:"bot_paused_reason"`
	BotPausedAt      *time.Time      `json:"bot_paused_at" db:"bot_paused_at"`
	ResumedAt        *time.Time      `json:"resumed_at" db:"resumed_at"`
	Status           LeadStatus      `json:"status" db:"status"`
	ExtractedData    json.RawMessage `json:"extracted_data,omitempty" db:"extracted_data"`
	OrderData        json.RawMessage `json:"order_data,omitempty" db:"order_data"`
	OrderConfirmedAt *time.Time      `json:"order_confirmed_at" db:"order_confirmed_at"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        *time.Time      `json:"updated_at" db:"updated_at"`
}

// LeadSummary is the row shape of the leads table listing.
type LeadSummary struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Phone           string          `json:"phone" db:"phone"`
	Classification  *Classification `json:"classification" db:"classification"`
	Score           *int            `json:"score" db:"score"`
	BotPaused       bool            `json:"bot_paused" db:"bot_paused"`
	BotPausedReason *string         `json:"bot_paused_reason" db:"bot_paused_reason"`
	BotPausedAt     *time.Time      `json:"bot_paused_at" db:"bot_paused_at"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at" db:"updated_at"`
}

type LeadFilter struct {
	TenantID       *uuid.UUID
	Classification *Classification
	BotPaused      *bool
	Search         string
}

type LeadStats struct {
	Total          int64 `json:"total" db:"total"`
	Hot            int64 `json:"hot" db:"hot"`
	Warm           int64 `json:"warm" db:"warm"`
	Cold           int64 `json:"cold" db:"cold"`
	Today          int64 `json:"today" db:"today"`
	Paused         int64 `json:"paused" db:"paused"`
	HotHumanActive int64 `json:"hot_human_active" db:"hot_human_active"`
}

type ToggleBotPauseInput struct {
	BotPaused *bool   `json:"bot_paused" validate:"required"`
	Reason    *string `json:"reason" validate:"omitempty,max=200"`
}

// BotPauseResult is what the toggle_bot_pause database function returns.
type BotPauseResult struct {
	ID              uuid.UUID  `json:"id"`
	BotPaused       bool       `json:"bot_paused"`
	BotPausedReason *string    `json:"bot_paused_reason"`
	BotPausedAt     *time.Time `json:"bot_paused_at"`
	ResumedAt       *time.Time `json:"resumed_at"`
	Status          LeadStatus `json:"status"`
	Error           string     `json:"error,omitempty"`
}

type Message struct {
	ID        uuid.UUID `json:"id" db:"id"`
	LeadID    uuid.UUID `json:"lead_id" db:"lead_id"`
	Role      string    `json:"role" db:"role"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ChangeKind string

const (
	ChangeInsert ChangeKind = "INSERT"
	ChangeUpdate ChangeKind = "UPDATE"
)

// LeadSnapshot is the projection of a lead row carried by the change stream.
type LeadSnapshot struct {
	ID             string         `json:"id"`
	Phone          string         `json:"phone"`
	Classification Classification `json:"classification"`
	BotPaused      bool           `json:"bot_paused"`
	ClientID       *string        `json:"client_id,omitempty"`
}

// LeadChangeEvent is one insert or update delivered by the change stream.
// Old is only set for updates.
type LeadChangeEvent struct {
	Kind ChangeKind
	New  LeadSnapshot
	Old  *LeadSnapshot
}
