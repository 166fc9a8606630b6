package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Type      NotificationType `json:"type"`
	LeadID    string           `json:"lead_id"`
	Phone     string           `json:"phone"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}

type NotificationType string

const (
	NotifHotLead   NotificationType = "hot_lead"
	NotifBotPaused NotificationType = "bot_paused"
)

// NotificationView is a notification rendered for the dashboard bell.
type NotificationView struct {
	ID           uuid.UUID        `json:"id"`
	Type         NotificationType `json:"type"`
	Label        string           `json:"label"`
	LeadID       string           `json:"lead_id"`
	Href         string           `json:"href"`
	Phone        string           `json:"phone"`
	Timestamp    time.Time        `json:"timestamp"`
	RelativeTime string           `json:"relative_time"`
	Read         bool             `json:"read"`
}

type NotificationFeedView struct {
	Data   []NotificationView `json:"data"`
	Unread int                `json:"unread"`
}
