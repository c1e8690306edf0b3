package domain

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxMessageLength = 4000
	MaxBookingDays   = 366
)

// BlockingStatuses статусы, занимающие даты в календаре техники
var BlockingStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
}
