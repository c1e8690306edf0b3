package domain

import "time"

// NotificationKind what a notification is about
type NotificationKind string

const (
	NotifBookingRequested NotificationKind = "booking_requested"
	NotifBookingApproved  NotificationKind = "booking_approved"
	NotifBookingRejected  NotificationKind = "booking_rejected"
)

// Notification one-way informational record delivered to a user
type Notification struct {
	ID          string
	UserID      string
	Kind        NotificationKind
	Title       string
	Body        string
	ReferenceID *string // e.g. booking id
	Read        bool
	CreatedAt   time.Time
}
