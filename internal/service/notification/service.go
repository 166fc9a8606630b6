package notification

import (
	"context"
	"time"

	"agentsleads/internal/domain"
)

type Service interface {
	List(ctx context.Context, viewer *domain.Viewer, locale string) (domain.NotificationFeedView, error)
	UnreadCount(ctx context.Context, viewer *domain.Viewer) (int, error)
	MarkAllRead(ctx context.Context, viewer *domain.Viewer) error
	ClearAll(ctx context.Context, viewer *domain.Viewer) error
	// Watch signals after every change to the viewer's feed. The returned
	// cancel func must be called once the caller stops reading.
	Watch(ctx context.Context, viewer *domain.Viewer) (<-chan struct{}, func(), error)
}

type service struct {
	hub *Hub
	now func() time.Time
}

func NewService(hub *Hub) Service {
	return &service{
		hub: hub,
		now: time.Now,
	}
}

func (s *service) List(ctx context.Context, viewer *domain.Viewer, locale string) (domain.NotificationFeedView, error) {
	sess, err := s.hub.Session(ctx, viewer)
	if err != nil {
		return domain.NotificationFeedView{}, err
	}
	return Render(sess.Notifications(), locale, s.now()), nil
}

func (s *service) UnreadCount(ctx context.Context, viewer *domain.Viewer) (int, error) {
	sess, err := s.hub.Session(ctx, viewer)
	if err != nil {
		return 0, err
	}
	return sess.Unread(), nil
}

func (s *service) MarkAllRead(ctx context.Context, viewer *domain.Viewer) error {
	sess, err := s.hub.Session(ctx, viewer)
	if err != nil {
		return err
	}
	sess.MarkAllRead()
	return nil
}

func (s *service) ClearAll(ctx context.Context, viewer *domain.Viewer) error {
	sess, err := s.hub.Session(ctx, viewer)
	if err != nil {
		return err
	}
	sess.ClearAll()
	return nil
}

func (s *service) Watch(ctx context.Context, viewer *domain.Viewer) (<-chan struct{}, func(), error) {
	sess, err := s.hub.Session(ctx, viewer)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := sess.Watch()
	return ch, cancel, nil
}
