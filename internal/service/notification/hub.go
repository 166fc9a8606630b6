package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"agentsleads/internal/domain"
	"agentsleads/internal/pkg/metrics"
	"agentsleads/internal/realtime"
)

var ErrHubClosed = errors.New("notification hub closed")

type HubOption func(*Hub)

// WithHubClock sets the clock used for idle tracking.
func WithHubClock(now func() time.Time) HubOption {
	return func(h *Hub) {
		h.now = now
	}
}

// WithSessionOptions applies opts to every session the hub mounts.
func WithSessionOptions(opts ...SessionOption) HubOption {
	return func(h *Hub) {
		h.opts = append(h.opts, opts...)
	}
}

// Hub owns the mounted sessions, one per profile. Every tab of the same
// profile shares a session, so they all see the same feed.
type Hub struct {
	source      realtime.Source
	stores      StoreFactory
	metrics     *metrics.Metrics
	log         *logrus.Entry
	idleTimeout time.Duration
	now         func() time.Time
	opts        []SessionOption

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	closed   bool
}

func NewHub(source realtime.Source, stores StoreFactory, m *metrics.Metrics, log *logrus.Entry, idleTimeout time.Duration, opts ...HubOption) *Hub {
	h := &Hub{
		source:      source,
		stores:      stores,
		metrics:     m,
		log:         log,
		idleTimeout: idleTimeout,
		now:         time.Now,
		sessions:    make(map[uuid.UUID]*Session),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Session returns the viewer's session, mounting it on first use and
// re-scoping it when the viewer's tenant no longer matches.
func (h *Hub) Session(ctx context.Context, viewer *domain.Viewer) (*Session, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHubClosed
	}

	sess, ok := h.sessions[viewer.UserID]
	if !ok {
		log := h.log.WithField("user_id", viewer.UserID.String())
		sess = NewSession(viewer.UserID, h.stores(viewer.UserID), h.source, h.metrics, log, h.opts...)
		h.sessions[viewer.UserID] = sess
	}
	sess.touch(h.now())
	h.mu.Unlock()

	if !ok {
		sess.Mount(ctx, viewer.TenantID)
		return sess, nil
	}

	if !sameTenant(sess.Tenant(), viewer.TenantID) {
		if err := sess.Rescope(ctx, viewer.TenantID); err != nil && !errors.Is(err, ErrSessionNotMounted) {
			h.log.WithError(err).WithField("user_id", viewer.UserID.String()).Warn("failed to rescope notification session")
		}
	}

	return sess, nil
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Reap unmounts sessions nobody is watching that were last used longer than
// the idle timeout ago, returning how many were removed.
func (h *Hub) Reap() int {
	now := h.now()

	h.mu.Lock()
	var idle []*Session
	for id, sess := range h.sessions {
		if sess.Watching() == 0 && now.Sub(sess.LastSeen()) > h.idleTimeout {
			idle = append(idle, sess)
			delete(h.sessions, id)
		}
	}
	h.mu.Unlock()

	for _, sess := range idle {
		sess.Unmount()
	}
	if len(idle) > 0 {
		h.log.WithField("count", len(idle)).Debug("reaped idle notification sessions")
	}
	return len(idle)
}

// Run reaps idle sessions until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	interval := h.idleTimeout / 2
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Reap()
		}
	}
}

// Close unmounts every session, flushing their pending writes.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	sessions := make([]*Session, 0, len(h.sessions))
	for id, sess := range h.sessions {
		sessions = append(sessions, sess)
		delete(h.sessions, id)
	}
	h.mu.Unlock()

	var wg sync.WaitGroup
	for _, sess := range sessions {
		wg.Add(1)
		go func(sess *Session) {
			defer wg.Done()
			sess.Unmount()
		}(sess)
	}
	wg.Wait()
}

func sameTenant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
