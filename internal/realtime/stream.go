// Package realtime delivers lead change events from the database change stream.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"agentsleads/internal/domain"
)

// AllTenantsChannel carries changes for every tenant. Tenant scoped channels
// append the client id without dashes, see ChannelName.
const AllTenantsChannel = "lead_changes"

var (
	ErrUnsupportedChange = errors.New("unsupported change operation")
	ErrSubscriberClosed  = errors.New("subscriber closed")
)

// Source opens subscriptions to the lead change stream.
type Source interface {
	// Subscribe opens a subscription restricted to tenantID, or to all
	// tenants when tenantID is nil. The context bounds opening only, not the
	// lifetime of the subscription.
	Subscribe(ctx context.Context, tenantID *uuid.UUID) (Subscription, error)
}

// Subscription is one open stream. Events is closed after Close returns or
// when the transport gives up.
type Subscription interface {
	Events() <-chan domain.LeadChangeEvent
	Close() error
}

func ChannelName(tenantID *uuid.UUID) string {
	if tenantID == nil {
		return AllTenantsChannel
	}
	return AllTenantsChannel + "_" + strings.ReplaceAll(tenantID.String(), "-", "")
}

type changePayload struct {
	Op  string               `json:"op"`
	New domain.LeadSnapshot  `json:"new"`
	Old *domain.LeadSnapshot `json:"old"`
}

// DecodeChange parses a change notification payload as published by the
// leads_notify_change trigger.
func DecodeChange(payload []byte) (domain.LeadChangeEvent, error) {
	var p changePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return domain.LeadChangeEvent{}, fmt.Errorf("failed to decode change payload: %w", err)
	}

	switch domain.ChangeKind(p.Op) {
	case domain.ChangeInsert:
		return domain.LeadChangeEvent{Kind: domain.ChangeInsert, New: p.New}, nil
	case domain.ChangeUpdate:
		return domain.LeadChangeEvent{Kind: domain.ChangeUpdate, New: p.New, Old: p.Old}, nil
	default:
		return domain.LeadChangeEvent{}, fmt.Errorf("%w: %q", ErrUnsupportedChange, p.Op)
	}
}
