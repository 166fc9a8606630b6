package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"agentsleads/internal/domain"
	"agentsleads/internal/pkg/metrics"
)

// Subscriber keeps at most one subscription open and forwards its events, in
// delivery order, on a single channel that outlives re-scoping.
type Subscriber struct {
	source  Source
	metrics *metrics.Metrics
	log     *logrus.Entry

	events chan domain.LeadChangeEvent

	mu      sync.Mutex
	sub     Subscription
	stop    chan struct{}
	stopped chan struct{}
	tenant  *uuid.UUID
	closed  bool
}

func NewSubscriber(source Source, m *metrics.Metrics, log *logrus.Entry) *Subscriber {
	return &Subscriber{
		source:  source,
		metrics: m,
		log:     log,
		events:  make(chan domain.LeadChangeEvent),
	}
}

// Events is closed by Close.
func (s *Subscriber) Events() <-chan domain.LeadChangeEvent {
	return s.events
}

// Open closes the current subscription, if any, and subscribes for tenantID.
// On error the subscriber is left without a subscription.
func (s *Subscriber) Open(ctx context.Context, tenantID *uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSubscriberClosed
	}

	s.closeCurrent()
	s.tenant = copyID(tenantID)

	sub, err := s.source.Subscribe(ctx, tenantID)
	if err != nil {
		s.log.WithError(err).Warn("change stream unavailable, live notifications disabled")
		return err
	}

	s.sub = sub
	s.stop = make(chan struct{})
	s.stopped = make(chan struct{})
	s.metrics.ActiveSubscriptions.Inc()

	go s.forward(sub, s.stop, s.stopped)

	return nil
}

func (s *Subscriber) forward(sub Subscription, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	for {
		select {
		case <-stop:
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			select {
			case s.events <- ev:
			case <-stop:
				return
			}
		}
	}
}

// closeCurrent must be called with mu held.
func (s *Subscriber) closeCurrent() {
	if s.sub == nil {
		return
	}

	close(s.stop)
	<-s.stopped

	if err := s.sub.Close(); err != nil {
		s.log.WithError(err).Debug("failed to close change stream subscription")
	}
	s.sub = nil
	s.metrics.ActiveSubscriptions.Dec()
}

// Close ends the current subscription and closes Events. Further calls to
// Open fail with ErrSubscriberClosed.
func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closeCurrent()
	s.closed = true
	close(s.events)
}

func (s *Subscriber) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sub != nil
}

func (s *Subscriber) Tenant() *uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyID(s.tenant)
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
