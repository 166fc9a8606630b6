package notification

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentsleads/internal/domain"
	"agentsleads/internal/pkg/i18n"
)

func TestRender(t *testing.T) {
	require.NoError(t, i18n.LoadTranslations(filepath.Join("..", "..", "..", "locales")))
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	items := []domain.Notification{
		{ID: uuid.New(), Type: domain.NotifBotPaused, LeadID: "L2", Phone: "+1555", Timestamp: now.Add(-5 * time.Minute)},
		{ID: uuid.New(), Type: domain.NotifHotLead, LeadID: "L1", Phone: "+1666", Timestamp: now.Add(-3 * time.Hour), Read: true},
	}

	view := Render(items, "es", now)

	assert.Equal(t, 1, view.Unread)
	require.Len(t, view.Data, 2)
	assert.Equal(t, "Bot pausado", view.Data[0].Label)
	assert.Equal(t, "/dashboard/leads/L2", view.Data[0].Href)
	assert.Equal(t, "hace 5m", view.Data[0].RelativeTime)
	assert.False(t, view.Data[0].Read)
	assert.Equal(t, "Lead hot", view.Data[1].Label)
	assert.Equal(t, "hace 3h", view.Data[1].RelativeTime)
	assert.True(t, view.Data[1].Read)

	english := Render(items, "en", now)
	assert.Equal(t, "Bot paused", english.Data[0].Label)
	assert.Equal(t, "5m ago", english.Data[0].RelativeTime)
}

func TestRender_Empty(t *testing.T) {
	view := Render(nil, "es", time.Now())

	assert.NotNil(t, view.Data)
	assert.Empty(t, view.Data)
	assert.Zero(t, view.Unread)
}
