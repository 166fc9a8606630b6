package notification

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"agentsleads/internal/domain"
)

// Store persists one profile's feed. Implementations do not fail: missing or
// unreadable data loads as an empty list and write errors are dropped.
type Store interface {
	Load(ctx context.Context) []domain.Notification
	Save(ctx context.Context, notifications []domain.Notification)
}

// StoreFactory returns the store for a profile.
type StoreFactory func(profileID uuid.UUID) Store

// MemoryStore keeps a feed in process memory, serialized the same way the
// Redis store does.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func (s *MemoryStore) Load(_ context.Context) []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Notification
	if len(s.data) == 0 {
		return out
	}
	if err := json.Unmarshal(s.data, &out); err != nil {
		return nil
	}
	return out
}

func (s *MemoryStore) Save(_ context.Context, notifications []domain.Notification) {
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	data, err := json.Marshal(notifications)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

// NewMemoryStoreFactory hands out one MemoryStore per profile, so a feed
// survives its session being unmounted and mounted again.
func NewMemoryStoreFactory() StoreFactory {
	var mu sync.Mutex
	stores := make(map[uuid.UUID]*MemoryStore)

	return func(profileID uuid.UUID) Store {
		mu.Lock()
		defer mu.Unlock()

		s, ok := stores[profileID]
		if !ok {
			s = &MemoryStore{}
			stores[profileID] = s
		}
		return s
	}
}
