package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Lead        LeadRepository
	Message     MessageRepository
	Client      ClientRepository
	AgentPrompt AgentPromptRepository
	Plan        PlanRepository
	ClientUser  ClientUserRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Lead:        NewLeadRepository(db),
		Message:     NewMessageRepository(db),
		Client:      NewClientRepository(db),
		AgentPrompt: NewAgentPromptRepository(db),
		Plan:        NewPlanRepository(db),
		ClientUser:  NewClientUserRepository(db),
	}
}
