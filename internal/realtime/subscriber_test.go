package realtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentsleads/internal/domain"
	"agentsleads/internal/pkg/logger"
	"agentsleads/internal/pkg/metrics"
)

func newTestSubscriber(source Source) (*Subscriber, *metrics.Metrics) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	return NewSubscriber(source, m, logger.NewNop().Component("realtime")), m
}

func hotInsert(id string, tenant *uuid.UUID) domain.LeadChangeEvent {
	ev := domain.LeadChangeEvent{
		Kind: domain.ChangeInsert,
		New:  domain.LeadSnapshot{ID: id, Phone: "+1555", Classification: domain.ClassificationHot},
	}
	if tenant != nil {
		v := tenant.String()
		ev.New.ClientID = &v
	}
	return ev
}

func receive(t *testing.T, events <-chan domain.LeadChangeEvent) domain.LeadChangeEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return domain.LeadChangeEvent{}
	}
}

func TestSubscriber_ForwardsInOrder(t *testing.T) {
	source := NewMemorySource()
	sub, _ := newTestSubscriber(source)
	defer sub.Close()

	require.NoError(t, sub.Open(context.Background(), nil))

	go func() {
		source.Publish(hotInsert("L1", nil))
		source.Publish(hotInsert("L2", nil))
		source.Publish(hotInsert("L3", nil))
	}()

	assert.Equal(t, "L1", receive(t, sub.Events()).New.ID)
	assert.Equal(t, "L2", receive(t, sub.Events()).New.ID)
	assert.Equal(t, "L3", receive(t, sub.Events()).New.ID)
}

func TestSubscriber_OpenReplacesSubscription(t *testing.T) {
	source := NewMemorySource()
	sub, m := newTestSubscriber(source)
	defer sub.Close()
	tenantA := uuid.New()
	tenantB := uuid.New()

	require.NoError(t, sub.Open(context.Background(), &tenantA))
	require.NoError(t, sub.Open(context.Background(), &tenantB))

	assert.Equal(t, 1, source.Open())
	assert.Equal(t, 2, source.Subscribes())
	assert.Equal(t, tenantB, *sub.Tenant())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ActiveSubscriptions))

	go func() {
		source.Publish(hotInsert("A1", &tenantA))
		source.Publish(hotInsert("B1", &tenantB))
	}()

	assert.Equal(t, "B1", receive(t, sub.Events()).New.ID)
}

func TestSubscriber_OpenFailureLeavesNoSubscription(t *testing.T) {
	source := NewMemorySource()
	sub, m := newTestSubscriber(source)
	defer sub.Close()

	require.NoError(t, sub.Open(context.Background(), nil))
	source.SetError(errors.New("connection refused"))

	err := sub.Open(context.Background(), nil)

	assert.Error(t, err)
	assert.False(t, sub.Active())
	assert.Equal(t, 0, source.Open())
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ActiveSubscriptions))
}

func TestSubscriber_Close(t *testing.T) {
	source := NewMemorySource()
	sub, _ := newTestSubscriber(source)

	require.NoError(t, sub.Open(context.Background(), nil))
	sub.Close()

	assert.Equal(t, 0, source.Open())
	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.ErrorIs(t, sub.Open(context.Background(), nil), ErrSubscriberClosed)

	sub.Close()
}

func TestMemorySource_TenantFiltering(t *testing.T) {
	source := NewMemorySource()
	tenant := uuid.New()

	all, err := source.Subscribe(context.Background(), nil)
	require.NoError(t, err)
	defer all.Close()
	scoped, err := source.Subscribe(context.Background(), &tenant)
	require.NoError(t, err)
	defer scoped.Close()

	go source.Publish(hotInsert("X1", nil))
	assert.Equal(t, "X1", receive(t, all.Events()).New.ID)

	go source.Publish(hotInsert("T1", &tenant))

	// delivery order across subscriptions is unspecified
	allEvents, scopedEvents := all.Events(), scoped.Events()
	for received := 0; received < 2; received++ {
		select {
		case ev := <-allEvents:
			assert.Equal(t, "T1", ev.New.ID)
			allEvents = nil
		case ev := <-scopedEvents:
			assert.Equal(t, "T1", ev.New.ID)
			scopedEvents = nil
		case <-time.After(time.Second):
			t.Fatal("event not delivered to both subscriptions")
		}
	}
}
