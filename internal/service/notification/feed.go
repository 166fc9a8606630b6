package notification

import (
	"agentsleads/internal/domain"
)

// MaxFeedSize caps how many notifications a feed keeps. Adding past the cap
// drops the oldest entries.
const MaxFeedSize = 20

// Feed is one viewer's notification list, newest first. It is not safe for
// concurrent use; Session guards it.
type Feed struct {
	items []domain.Notification
}

func NewFeed(items []domain.Notification) *Feed {
	f := &Feed{}
	f.Replace(items)
	return f
}

// Replace swaps the whole list, truncating to MaxFeedSize.
func (f *Feed) Replace(items []domain.Notification) {
	if len(items) > MaxFeedSize {
		items = items[:MaxFeedSize]
	}
	f.items = append([]domain.Notification(nil), items...)
}

func (f *Feed) Add(n domain.Notification) {
	items := make([]domain.Notification, 0, min(len(f.items)+1, MaxFeedSize))
	items = append(items, n)
	items = append(items, f.items...)
	if len(items) > MaxFeedSize {
		items = items[:MaxFeedSize]
	}
	f.items = items
}

// RemoveAll drops every notification matching match and reports how many
// were removed. Relative order of the rest is kept.
func (f *Feed) RemoveAll(match func(domain.Notification) bool) int {
	kept := make([]domain.Notification, 0, len(f.items))
	for _, n := range f.items {
		if !match(n) {
			kept = append(kept, n)
		}
	}
	removed := len(f.items) - len(kept)
	f.items = kept
	return removed
}

func (f *Feed) MarkAllRead() {
	for i := range f.items {
		f.items[i].Read = true
	}
}

func (f *Feed) Clear() {
	f.items = nil
}

// Items returns a copy of the list.
func (f *Feed) Items() []domain.Notification {
	out := make([]domain.Notification, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed) Len() int {
	return len(f.items)
}

func (f *Feed) Unread() int {
	count := 0
	for _, n := range f.items {
		if !n.Read {
			count++
		}
	}
	return count
}
