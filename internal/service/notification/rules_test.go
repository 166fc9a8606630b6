package notification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentsleads/internal/domain"
)

func snapshot(id string, class domain.Classification, paused bool) domain.LeadSnapshot {
	return domain.LeadSnapshot{ID: id, Phone: "+1555", Classification: class, BotPaused: paused}
}

func insertEvent(s domain.LeadSnapshot) domain.LeadChangeEvent {
	return domain.LeadChangeEvent{Kind: domain.ChangeInsert, New: s}
}

func updateEvent(oldS, newS domain.LeadSnapshot) domain.LeadChangeEvent {
	return domain.LeadChangeEvent{Kind: domain.ChangeUpdate, New: newS, Old: &oldS}
}

func TestEngine_Evaluate(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name     string
		event    domain.LeadChangeEvent
		wantRule string
		wantMuts []Mutation
	}{
		{
			name:     "insert hot",
			event:    insertEvent(snapshot("L1", domain.ClassificationHot, false)),
			wantRule: "insert_hot",
			wantMuts: []Mutation{AddMutation(domain.NotifHotLead, "L1", "+1555")},
		},
		{
			name:  "insert warm",
			event: insertEvent(snapshot("L1", domain.ClassificationWarm, false)),
		},
		{
			name:  "insert paused but not hot",
			event: insertEvent(snapshot("L1", domain.ClassificationCold, true)),
		},
		{
			name:     "insert hot and paused only yields hot lead",
			event:    insertEvent(snapshot("L1", domain.ClassificationHot, true)),
			wantRule: "insert_hot",
			wantMuts: []Mutation{AddMutation(domain.NotifHotLead, "L1", "+1555")},
		},
		{
			name:     "update becomes hot",
			event:    updateEvent(snapshot("L1", domain.ClassificationWarm, false), snapshot("L1", domain.ClassificationHot, false)),
			wantRule: "became_hot",
			wantMuts: []Mutation{AddMutation(domain.NotifHotLead, "L1", "+1555")},
		},
		{
			name:  "update stays hot",
			event: updateEvent(snapshot("L1", domain.ClassificationHot, false), snapshot("L1", domain.ClassificationHot, false)),
		},
		{
			name:     "update becomes hot and paused yields one hot lead",
			event:    updateEvent(snapshot("L1", domain.ClassificationWarm, false), snapshot("L1", domain.ClassificationHot, true)),
			wantRule: "became_hot",
			wantMuts: []Mutation{AddMutation(domain.NotifHotLead, "L1", "+1555")},
		},
		{
			name:     "update paused",
			event:    updateEvent(snapshot("L2", domain.ClassificationWarm, false), snapshot("L2", domain.ClassificationWarm, true)),
			wantRule: "bot_paused",
			wantMuts: []Mutation{AddMutation(domain.NotifBotPaused, "L2", "+1555")},
		},
		{
			name:     "update resumed",
			event:    updateEvent(snapshot("L2", domain.ClassificationWarm, true), snapshot("L2", domain.ClassificationWarm, false)),
			wantRule: "bot_resumed",
			wantMuts: []Mutation{RemoveMutation(domain.NotifBotPaused, "L2")},
		},
		{
			name:  "update still paused",
			event: updateEvent(snapshot("L2", domain.ClassificationWarm, true), snapshot("L2", domain.ClassificationWarm, true)),
		},
		{
			name:  "update without old row",
			event: domain.LeadChangeEvent{Kind: domain.ChangeUpdate, New: snapshot("L3", domain.ClassificationHot, true)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, muts := engine.Evaluate(tt.event)
			assert.Equal(t, tt.wantRule, rule)
			assert.Equal(t, tt.wantMuts, muts)
		})
	}
}

func TestEngine_CustomRulesFirstMatchWins(t *testing.T) {
	always := func(domain.LeadChangeEvent) bool { return true }
	engine := NewEngine(
		Rule{Name: "first", Match: always, Emit: emitAdd(domain.NotifBotPaused)},
		Rule{Name: "second", Match: always, Emit: emitAdd(domain.NotifHotLead)},
	)

	rule, muts := engine.Evaluate(insertEvent(snapshot("L1", domain.ClassificationHot, false)))

	assert.Equal(t, "first", rule)
	require.Len(t, muts, 1)
	assert.Equal(t, domain.NotifBotPaused, muts[0].Type)
}

func TestMutation_ApplyRemoveOnlyTouchesThatLead(t *testing.T) {
	f := NewFeed(nil)
	f.Add(notif(domain.NotifBotPaused, "L2"))
	f.Add(notif(domain.NotifBotPaused, "L9"))
	f.Add(notif(domain.NotifHotLead, "L2"))
	f.Add(notif(domain.NotifBotPaused, "L2"))

	removed := RemoveMutation(domain.NotifBotPaused, "L2").Apply(f, uuid.New, time.Now())

	assert.Equal(t, 2, removed)
	items := f.Items()
	require.Len(t, items, 2)
	assert.Equal(t, domain.NotifHotLead, items[0].Type)
	assert.Equal(t, "L9", items[1].LeadID)
}

func TestMutation_ApplyAddUsesClockAndID(t *testing.T) {
	f := NewFeed(nil)
	id := uuid.New()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	AddMutation(domain.NotifHotLead, "L1", "+1555").Apply(f, func() uuid.UUID { return id }, now)

	items := f.Items()
	require.Len(t, items, 1)
	assert.Equal(t, domain.Notification{
		ID:        id,
		Type:      domain.NotifHotLead,
		LeadID:    "L1",
		Phone:     "+1555",
		Timestamp: now,
		Read:      false,
	}, items[0])
}
