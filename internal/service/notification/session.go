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

const storeWriteTimeout = 5 * time.Second

var ErrSessionNotMounted = errors.New("notification session not mounted")

type SessionOption func(*Session)

func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

func WithIDGenerator(newID func() uuid.UUID) SessionOption {
	return func(s *Session) {
		s.newID = newID
	}
}

func WithEngine(e *Engine) SessionOption {
	return func(s *Session) {
		s.engine = e
	}
}

// Session is the live notification feed of one profile. Change events and
// user actions are applied one at a time under mu, and every change is
// persisted in order by a single writer goroutine that only ever sees the
// latest snapshot.
type Session struct {
	profileID uuid.UUID
	engine    *Engine
	store     Store
	source    realtime.Source
	metrics   *metrics.Metrics
	log       *logrus.Entry
	now       func() time.Time
	newID     func() uuid.UUID

	mu         sync.Mutex
	feed       *Feed
	hydrated   bool
	mounted    bool
	tenant     *uuid.UUID
	subscriber *realtime.Subscriber
	loopDone   chan struct{}
	pending    chan []domain.Notification
	writerDone chan struct{}
	watchers   map[chan struct{}]struct{}
	lastSeen   time.Time
}

func NewSession(profileID uuid.UUID, store Store, source realtime.Source, m *metrics.Metrics, log *logrus.Entry, opts ...SessionOption) *Session {
	s := &Session{
		profileID: profileID,
		engine:    NewEngine(),
		store:     store,
		source:    source,
		metrics:   m,
		log:       log,
		now:       time.Now,
		newID:     uuid.New,
		feed:      NewFeed(nil),
		watchers:  make(map[chan struct{}]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ProfileID() uuid.UUID {
	return s.profileID
}

// Mount hydrates the feed from the store on first mount, then subscribes to
// the change stream for tenantID (nil meaning all tenants). A stream that
// cannot be opened leaves the session mounted without live updates.
func (s *Session) Mount(ctx context.Context, tenantID *uuid.UUID) {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = true
	s.tenant = copyID(tenantID)

	if !s.hydrated {
		if stored := s.store.Load(ctx); len(stored) > 0 {
			s.feed.Replace(stored)
		}
		s.hydrated = true
	}

	s.pending = make(chan []domain.Notification, 1)
	s.writerDone = make(chan struct{})
	go s.writeLoop(s.pending, s.writerDone)

	sub := realtime.NewSubscriber(s.source, s.metrics, s.log)
	s.subscriber = sub
	s.loopDone = make(chan struct{})
	go s.consume(sub.Events(), s.loopDone)
	s.mu.Unlock()

	s.metrics.MountedSessions.Inc()

	// opened outside mu: the consume loop needs mu to drain events
	_ = sub.Open(ctx, tenantID)
}

// Rescope points the subscription at a different tenant. The feed is kept.
func (s *Session) Rescope(ctx context.Context, tenantID *uuid.UUID) error {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return ErrSessionNotMounted
	}
	s.tenant = copyID(tenantID)
	sub := s.subscriber
	s.mu.Unlock()

	return sub.Open(ctx, tenantID)
}

// Unmount closes the subscription, waits for in-flight events to be applied
// and for pending writes to reach the store. Watchers are released.
func (s *Session) Unmount() {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = false
	sub := s.subscriber
	loopDone := s.loopDone
	s.mu.Unlock()

	sub.Close()
	<-loopDone

	s.mu.Lock()
	close(s.pending)
	s.pending = nil
	writerDone := s.writerDone
	s.subscriber = nil
	for w := range s.watchers {
		delete(s.watchers, w)
		close(w)
	}
	s.mu.Unlock()

	<-writerDone
	s.metrics.MountedSessions.Dec()
}

func (s *Session) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Tenant is the scope the session was last mounted or rescoped with.
func (s *Session) Tenant() *uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyID(s.tenant)
}

// Live reports whether a change stream subscription is open.
func (s *Session) Live() bool {
	s.mu.Lock()
	sub := s.subscriber
	s.mu.Unlock()
	return sub != nil && sub.Active()
}

// Handle applies a change event to the feed.
func (s *Session) Handle(ev domain.LeadChangeEvent) {
	s.metrics.LeadChangeEvents.WithLabelValues(string(ev.Kind)).Inc()

	rule, mutations := s.engine.Evaluate(ev)
	if len(mutations) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, m := range mutations {
		n := m.Apply(s.feed, s.newID, now)
		switch m.Kind {
		case MutationAdd:
			s.metrics.NotificationsEmitted.WithLabelValues(string(m.Type)).Inc()
		case MutationRemove:
			s.metrics.NotificationsDismissed.Add(float64(n))
		}
	}

	s.log.WithFields(logrus.Fields{
		"rule":    rule,
		"lead_id": ev.New.ID,
	}).Debug("notification rule applied")

	s.changed()
}

func (s *Session) Notifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feed.Items()
}

func (s *Session) Unread() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feed.Unread()
}

func (s *Session) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed.MarkAllRead()
	s.changed()
}

func (s *Session) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed.Clear()
	s.changed()
}

// Watch returns a channel that receives a signal after each feed change. The
// channel is closed by cancel or when the session is unmounted.
func (s *Session) Watch() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.watchers[ch]; ok {
			delete(s.watchers, ch)
			close(ch)
		}
	}
	return ch, cancel
}

func (s *Session) Watching() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watchers)
}

func (s *Session) touch(t time.Time) {
	s.mu.Lock()
	s.lastSeen = t
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// changed queues the current feed for persistence and signals watchers. Must
// be called with mu held. Nothing is written before hydration, otherwise the
// stored feed would be overwritten by an empty one.
func (s *Session) changed() {
	if s.hydrated && s.pending != nil {
		snapshot := s.feed.Items()
		select {
		case s.pending <- snapshot:
		default:
			// replace the unwritten snapshot with the newer one
			select {
			case <-s.pending:
			default:
			}
			s.pending <- snapshot
		}
	}

	for w := range s.watchers {
		select {
		case w <- struct{}{}:
		default:
		}
	}
}

func (s *Session) consume(events <-chan domain.LeadChangeEvent, done chan<- struct{}) {
	defer close(done)
	for ev := range events {
		s.Handle(ev)
	}
}

func (s *Session) writeLoop(pending <-chan []domain.Notification, done chan<- struct{}) {
	defer close(done)
	for snapshot := range pending {
		ctx, cancel := context.WithTimeout(context.Background(), storeWriteTimeout)
		s.store.Save(ctx, snapshot)
		cancel()
	}
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
