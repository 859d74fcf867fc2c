package model

import "time"

// Notification is a message addressed to a user.
type Notification struct {
	ID        string    `json:"_id"`
	Title     string    `json:"notifications_title"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationWithRead pairs a notification with the user's read flag.
type NotificationWithRead struct {
	Notification Notification `json:"notification"`
	Read         bool         `json:"read"`
}

// NotificationFeed is the backend's notification list for one user.
type NotificationFeed struct {
	Notifications []NotificationWithRead `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
}
