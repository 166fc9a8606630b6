package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"agentsleads/internal/domain"
)

// pingInterval is how often an idle listener checks its connection; a dead
// connection is only noticed on traffic otherwise.
const pingInterval = 90 * time.Second

// PGSource subscribes to Postgres NOTIFY channels with one pq.Listener per
// subscription. Reconnects are handled by pq.Listener.
type PGSource struct {
	dsn          string
	minReconnect time.Duration
	maxReconnect time.Duration
	openTimeout  time.Duration
	log          *logrus.Entry
}

func NewPGSource(dsn string, minReconnect, maxReconnect, openTimeout time.Duration, log *logrus.Entry) *PGSource {
	return &PGSource{
		dsn:          dsn,
		minReconnect: minReconnect,
		maxReconnect: maxReconnect,
		openTimeout:  openTimeout,
		log:          log,
	}
}

func (s *PGSource) Subscribe(ctx context.Context, tenantID *uuid.UUID) (Subscription, error) {
	channel := ChannelName(tenantID)
	log := s.log.WithField("channel", channel)

	listener := pq.NewListener(s.dsn, s.minReconnect, s.maxReconnect, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			log.Debug("change stream connected")
		case pq.ListenerEventDisconnected:
			log.WithError(err).Warn("change stream disconnected")
		case pq.ListenerEventReconnected:
			log.Info("change stream reconnected")
		case pq.ListenerEventConnectionAttemptFailed:
			log.WithError(err).Warn("change stream connection attempt failed")
		}
	})

	openCtx, cancel := context.WithTimeout(ctx, s.openTimeout)
	defer cancel()

	// Listen blocks until the first connection is up
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- listener.Listen(channel)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			_ = listener.Close()
			return nil, fmt.Errorf("failed to listen on %s: %w", channel, err)
		}
	case <-openCtx.Done():
		_ = listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", channel, openCtx.Err())
	}

	sub := &pgSubscription{
		listener: listener,
		events:   make(chan domain.LeadChangeEvent),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		log:      log,
	}
	go sub.run()

	return sub, nil
}

type pgSubscription struct {
	listener  *pq.Listener
	events    chan domain.LeadChangeEvent
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
	log       *logrus.Entry
}

func (s *pgSubscription) Events() <-chan domain.LeadChangeEvent {
	return s.events
}

func (s *pgSubscription) run() {
	defer close(s.stopped)
	defer close(s.events)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if err := s.listener.Ping(); err != nil {
				s.log.WithError(err).Debug("change stream ping failed")
			}
		case n, ok := <-s.listener.Notify:
			if !ok {
				return
			}
			if n == nil {
				// pq sends nil after a reconnect; anything published while
				// disconnected is gone
				s.log.Info("change stream re-established, events may have been missed")
				continue
			}

			ev, err := DecodeChange([]byte(n.Extra))
			if err != nil {
				s.log.WithError(err).Warn("dropping change notification")
				continue
			}

			select {
			case s.events <- ev:
			case <-s.done:
				return
			}
		}
	}
}

func (s *pgSubscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.listener.Close()
		<-s.stopped
	})
	return err
}
