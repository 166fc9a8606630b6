package notification

import (
	"time"

	"github.com/google/uuid"

	"agentsleads/internal/domain"
)

type MutationKind int

const (
	MutationAdd MutationKind = iota
	MutationRemove
)

// Mutation is one change a rule makes to a feed. Remove mutations drop every
// notification of Type for LeadID.
type Mutation struct {
	Kind   MutationKind
	Type   domain.NotificationType
	LeadID string
	Phone  string
}

func AddMutation(t domain.NotificationType, leadID, phone string) Mutation {
	return Mutation{Kind: MutationAdd, Type: t, LeadID: leadID, Phone: phone}
}

func RemoveMutation(t domain.NotificationType, leadID string) Mutation {
	return Mutation{Kind: MutationRemove, Type: t, LeadID: leadID}
}

// Apply performs m on f and returns the number of notifications added or
// removed.
func (m Mutation) Apply(f *Feed, newID func() uuid.UUID, now time.Time) int {
	switch m.Kind {
	case MutationAdd:
		f.Add(domain.Notification{
			ID:        newID(),
			Type:      m.Type,
			LeadID:    m.LeadID,
			Phone:     m.Phone,
			Timestamp: now,
		})
		return 1
	case MutationRemove:
		return f.RemoveAll(func(n domain.Notification) bool {
			return n.Type == m.Type && n.LeadID == m.LeadID
		})
	}
	return 0
}

// Rule maps a change event to feed mutations.
type Rule struct {
	Name  string
	Match func(ev domain.LeadChangeEvent) bool
	Emit  func(ev domain.LeadChangeEvent) []Mutation
}

// DefaultRules returns the notification rules in priority order. Only the
// first matching rule applies, so an update that both turns a lead hot and
// pauses its bot yields just the hot lead notification.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "insert_hot",
			Match: func(ev domain.LeadChangeEvent) bool {
				return ev.Kind == domain.ChangeInsert && ev.New.Classification == domain.ClassificationHot
			},
			Emit: emitAdd(domain.NotifHotLead),
		},
		{
			Name: "became_hot",
			Match: func(ev domain.LeadChangeEvent) bool {
				return isUpdate(ev) &&
					ev.New.Classification == domain.ClassificationHot &&
					ev.Old.Classification != domain.ClassificationHot
			},
			Emit: emitAdd(domain.NotifHotLead),
		},
		{
			Name: "bot_paused",
			Match: func(ev domain.LeadChangeEvent) bool {
				return isUpdate(ev) && ev.New.BotPaused && !ev.Old.BotPaused
			},
			Emit: emitAdd(domain.NotifBotPaused),
		},
		{
			Name: "bot_resumed",
			Match: func(ev domain.LeadChangeEvent) bool {
				return isUpdate(ev) && !ev.New.BotPaused && ev.Old.BotPaused
			},
			Emit: func(ev domain.LeadChangeEvent) []Mutation {
				return []Mutation{RemoveMutation(domain.NotifBotPaused, ev.New.ID)}
			},
		},
	}
}

// updates without a previous row image carry nothing to compare against
func isUpdate(ev domain.LeadChangeEvent) bool {
	return ev.Kind == domain.ChangeUpdate && ev.Old != nil
}

func emitAdd(t domain.NotificationType) func(domain.LeadChangeEvent) []Mutation {
	return func(ev domain.LeadChangeEvent) []Mutation {
		return []Mutation{AddMutation(t, ev.New.ID, ev.New.Phone)}
	}
}

type Engine struct {
	rules []Rule
}

// NewEngine evaluates rules in the given order, or DefaultRules when none
// are given.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

// Evaluate returns the name and mutations of the first matching rule. An
// event no rule matches yields an empty name and no mutations.
func (e *Engine) Evaluate(ev domain.LeadChangeEvent) (string, []Mutation) {
	for _, r := range e.rules {
		if r.Match(ev) {
			return r.Name, r.Emit(ev)
		}
	}
	return "", nil
}
