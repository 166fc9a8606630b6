package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"agentsleads/internal/domain"
)

// MemorySource is an in-process Source. Publish fans events out to the open
// subscriptions whose tenant matches the lead, the way the per-tenant NOTIFY
// channels do.
type MemorySource struct {
	mu         sync.Mutex
	subs       map[*memorySubscription]struct{}
	err        error
	subscribes int
}

func NewMemorySource() *MemorySource {
	return &MemorySource{subs: make(map[*memorySubscription]struct{})}
}

// SetError makes Subscribe fail with err until it is cleared with nil.
func (s *MemorySource) SetError(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *MemorySource) Subscribe(_ context.Context, tenantID *uuid.UUID) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribes++
	if s.err != nil {
		return nil, s.err
	}

	sub := &memorySubscription{
		source: s,
		tenant: copyID(tenantID),
		events: make(chan domain.LeadChangeEvent),
		done:   make(chan struct{}),
	}
	s.subs[sub] = struct{}{}
	return sub, nil
}

// Publish blocks until every matching subscription has taken ev.
func (s *MemorySource) Publish(ev domain.LeadChangeEvent) {
	s.mu.Lock()
	targets := make([]*memorySubscription, 0, len(s.subs))
	for sub := range s.subs {
		if sub.matches(ev) {
			targets = append(targets, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range targets {
		sub.send(ev)
	}
}

// Open is the number of subscriptions not yet closed.
func (s *MemorySource) Open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Subscribes counts Subscribe calls, failed ones included.
func (s *MemorySource) Subscribes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscribes
}

type memorySubscription struct {
	source    *MemorySource
	tenant    *uuid.UUID
	events    chan domain.LeadChangeEvent
	done      chan struct{}
	sendMu    sync.Mutex
	closeOnce sync.Once
}

func (s *memorySubscription) matches(ev domain.LeadChangeEvent) bool {
	if s.tenant == nil {
		return true
	}
	return ev.New.ClientID != nil && *ev.New.ClientID == s.tenant.String()
}

func (s *memorySubscription) send(ev domain.LeadChangeEvent) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- ev:
	case <-s.done:
	}
}

func (s *memorySubscription) Events() <-chan domain.LeadChangeEvent {
	return s.events
}

func (s *memorySubscription) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)

		s.sendMu.Lock()
		close(s.events)
		s.sendMu.Unlock()

		s.source.mu.Lock()
		delete(s.source.subs, s)
		s.source.mu.Unlock()
	})
	return nil
}
