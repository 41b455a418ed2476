// Package realtime implements the websocket gateway: a group-addressed
// in-process broker plus the admin aggregate and per-user notification
// sockets. All frames are JSON text messages carrying a "type" discriminator.
package realtime

import "fmt"

// GroupAdminNotifications receives the active-booking aggregate broadcasts.
const GroupAdminNotifications = "admin_notifications"

// UserGroup names the per-user notification group.
func UserGroup(userID uint) string {
	return fmt.Sprintf("notifications_%d", userID)
}

// Outbound frame types.
const (
	TypeActiveCountUpdate  = "active_count_update"
	TypeBookingsDataUpdate = "bookings_data_update"
	TypeNewNotification    = "new_notification"
	TypeUnreadUpdate       = "unread_update"
	TypeInitialCount       = "initial_count"
	TypeAuthResponse       = "auth_response"
	TypeHeartbeatAck       = "heartbeat_ack"
)

// Inbound frame types.
const (
	TypeGetActiveCount    = "get_active_count"
	TypeGetActiveBookings = "get_active_bookings"
	TypeAuthenticate      = "authenticate"
	TypeMarkRead          = "mark_read"
	TypeHeartbeat         = "heartbeat"
)

// ActiveCountUpdate is the cheap count bump published to the admin group
// after every booking transition.
type ActiveCountUpdate struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

func NewActiveCountUpdate(count int64) ActiveCountUpdate {
	return ActiveCountUpdate{Type: TypeActiveCountUpdate, Count: count}
}

// BookingsDataUpdate is the full list refresh published to the admin group
// on booking creation and cancellation.
type BookingsDataUpdate struct {
	Type     string `json:"type"`
	Count    int64  `json:"count"`
	Bookings any    `json:"bookings"`
}

func NewBookingsDataUpdate(count int64, bookings any) BookingsDataUpdate {
	return BookingsDataUpdate{Type: TypeBookingsDataUpdate, Count: count, Bookings: bookings}
}

// NewNotificationEvent carries a freshly created notification row together
// with the owner's unread count.
type NewNotificationEvent struct {
	Type         string `json:"type"`
	Notification any    `json:"notification"`
	UnreadCount  int64  `json:"unread_count"`
}

func NewNotification(notification any, unread int64) NewNotificationEvent {
	return NewNotificationEvent{Type: TypeNewNotification, Notification: notification, UnreadCount: unread}
}

// UnreadUpdate republishes the owner's unread count after mark-read.
type UnreadUpdate struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

func NewUnreadUpdate(count int64) UnreadUpdate {
	return UnreadUpdate{Type: TypeUnreadUpdate, Count: count}
}

type InitialCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type AuthResponse struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HeartbeatAck struct {
	Type string `json:"type"`
}

// InboundFrame is the envelope every client-to-server message is decoded
// into. Unknown fields are ignored.
type InboundFrame struct {
	Type   string `json:"type"`
	UserID uint   `json:"userId"`
}
