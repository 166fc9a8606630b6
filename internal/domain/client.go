package domain

import (
	"time"

	"github.com/google/uuid"
)

type ProductMode string

const (
	ProductModeInventory ProductMode = "inventory"
	ProductModeCatalog   ProductMode = "catalog"
)

type Client struct {
	ID                       uuid.UUID   `json:"id" db:"id"`
	Name                     string      `json:"name" db:"name"`
	BusinessType             *string     `json:"business_type" db:"business_type"`
	Active                   bool        `json:"active" db:"active"`
	ChannelPhoneNumber       string      `json:"channel_phone_number" db:"channel_phone_number"`
	PlanID                   *uuid.UUID  `json:"plan_id" db:"plan_id"`
	ProductMode              ProductMode `json:"product_mode" db:"product_mode"`
	CatalogURL               *string     `json:"catalog_url" db:"catalog_url"`
	LLMTemperature           float64     `json:"llm_temperature" db:"llm_temperature"`
	ConversationHistoryLimit int         `json:"conversation_history_limit" db:"conversation_history_limit"`
	SalesPromptID            *uuid.UUID  `json:"sales_prompt_id" db:"sales_prompt_id"`
	NotificationPhone        *string     `json:"notification_phone" db:"notification_phone"`
	CreatedAt                time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt                *time.Time  `json:"updated_at" db:"updated_at"`
}

type ClientDetail struct {
	Client
	AgentPrompts []AgentPrompt `json:"agent_prompts"`
}

type CreateClientInput struct {
	Name               string      `json:"name" validate:"required,min=1"`
	BusinessType       *string     `json:"business_type" validate:"omitempty,max=100"`
	ChannelPhoneNumber string      `json:"channel_phone_number" validate:"required,min=5"`
	PlanID             *uuid.UUID  `json:"plan_id"`
	ProductMode        ProductMode `json:"product_mode" validate:"required,oneof=inventory catalog"`
	CatalogURL         *string     `json:"catalog_url" validate:"omitempty,url"`
	Active             *bool       `json:"active"`
	SalesPrompt        *string     `json:"sales_prompt" validate:"omitempty,min=10"`
}

type UpdateClientInput struct {
	Name               string      `json:"name" validate:"required,min=1"`
	BusinessType       *string     `json:"business_type" validate:"omitempty,max=100"`
	ChannelPhoneNumber string      `json:"channel_phone_number" validate:"required,min=5"`
	PlanID             *uuid.UUID  `json:"plan_id"`
	ProductMode        ProductMode `json:"product_mode" validate:"required,oneof=inventory catalog"`
	CatalogURL         *string     `json:"catalog_url" validate:"omitempty,url"`
	Active             bool        `json:"active"`
}

type AgentType string

const (
	AgentTypeSales      AgentType = "sales"
	AgentTypeIntent     AgentType = "intent"
	AgentTypeVision     AgentType = "vision"
	AgentTypeClassifier AgentType = "classifier"
)

type AgentPrompt struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Content     string     `json:"content" db:"content"`
	AgentType   AgentType  `json:"agent_type" db:"agent_type"`
	ClientID    *uuid.UUID `json:"client_id" db:"client_id"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	Version     int        `json:"version" db:"version"`
	Description *string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at" db:"updated_at"`
}

type Plan struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	DisplayName string    `json:"display_name" db:"display_name"`
	PriceUSD    float64   `json:"price_usd" db:"price_usd"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
