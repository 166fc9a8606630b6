package notification

import (
	"time"

	"agentsleads/internal/domain"
	"agentsleads/internal/pkg/i18n"
)

const leadHrefPrefix = "/dashboard/leads/"

// Render turns stored notifications into what the bell shows: a translated
// label, a link to the lead and a relative timestamp.
func Render(items []domain.Notification, locale string, now time.Time) domain.NotificationFeedView {
	views := make([]domain.NotificationView, 0, len(items))
	unread := 0

	for _, n := range items {
		if !n.Read {
			unread++
		}
		views = append(views, domain.NotificationView{
			ID:           n.ID,
			Type:         n.Type,
			Label:        i18n.Translate(locale, string(n.Type)),
			LeadID:       n.LeadID,
			Href:         leadHrefPrefix + n.LeadID,
			Phone:        n.Phone,
			Timestamp:    n.Timestamp,
			RelativeTime: i18n.RelativeTime(locale, n.Timestamp, now),
			Read:         n.Read,
		})
	}

	return domain.NotificationFeedView{Data: views, Unread: unread}
}
