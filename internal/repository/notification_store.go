package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"agentsleads/internal/domain"
	"agentsleads/internal/pkg/metrics"
)

const notificationKeyPrefix = "agentsleads:notifications:"

func NotificationKey(profileID uuid.UUID) string {
	return notificationKeyPrefix + profileID.String()
}

// NotificationStore keeps one profile's feed in Redis as a JSON array with no
// expiry. It never returns errors: reads degrade to an empty feed and failed
// writes are logged and counted.
type NotificationStore struct {
	redis   *redis.Client
	key     string
	metrics *metrics.Metrics
	log     *logrus.Entry
}

func NewNotificationStore(client *redis.Client, profileID uuid.UUID, m *metrics.Metrics, log *logrus.Entry) *NotificationStore {
	return &NotificationStore{
		redis:   client,
		key:     NotificationKey(profileID),
		metrics: m,
		log:     log.WithField("key", NotificationKey(profileID)),
	}
}

func (s *NotificationStore) Load(ctx context.Context) []domain.Notification {
	var notifications []domain.Notification

	data, err := s.redis.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return notifications
	}
	if err != nil {
		s.fail("load", err)
		return notifications
	}

	if err := json.Unmarshal(data, &notifications); err != nil {
		s.fail("decode", err)
		return nil
	}
	return notifications
}

func (s *NotificationStore) Save(ctx context.Context, notifications []domain.Notification) {
	if notifications == nil {
		notifications = []domain.Notification{}
	}

	data, err := json.Marshal(notifications)
	if err != nil {
		s.fail("encode", err)
		return
	}

	if err := s.redis.Set(ctx, s.key, data, 0).Err(); err != nil {
		s.fail("save", err)
	}
}

func (s *NotificationStore) fail(op string, err error) {
	s.metrics.StoreFailures.WithLabelValues(op).Inc()
	s.log.WithError(err).WithField("op", op).Warn("notification store failure")
}
