// Package notify orders and annotates the navbar notification feed.
package notify

import (
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/erazemk/delez/internal/model"
)

// Partition returns the unread notifications followed by the read ones,
// each group newest first. Notifications with equal timestamps keep their
// input order.
func Partition(list []model.NotificationWithRead) []model.NotificationWithRead {
	out := make([]model.NotificationWithRead, 0, len(list))
	var read []model.NotificationWithRead
	for _, n := range list {
		if n.Read {
			read = append(read, n)
		} else {
			out = append(out, n)
		}
	}
	byTime := func(a, b model.NotificationWithRead) int {
		return b.Notification.CreatedAt.Compare(a.Notification.CreatedAt)
	}
	slices.SortStableFunc(out, byTime)
	slices.SortStableFunc(read, byTime)
	return append(out, read...)
}

// Overlay marks the notifications in reads as read. The list is modified
// in place and returned.
func Overlay(list []model.NotificationWithRead, reads map[string]bool) []model.NotificationWithRead {
	for i := range list {
		if reads[list[i].Notification.ID] {
			list[i].Read = true
		}
	}
	return list
}

// Find returns the notification with the given id, or nil.
func Find(list []model.NotificationWithRead, id string) *model.NotificationWithRead {
	for i := range list {
		if list[i].Notification.ID == id {
			return &list[i]
		}
	}
	return nil
}

// Ago formats t relative to now, e.g. "3 hours ago".
func Ago(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
