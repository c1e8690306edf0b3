package domain

import "time"

// BookingStatus represents the status of an equipment booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
)

// IsValid reports whether the status is one of the known values
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s BookingStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// CanTransitionTo returns true if next is reachable from s.
// Only pending bookings move, and only into a terminal status.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return s == StatusPending && next.IsTerminal()
}

// Booking represents a renter's request to reserve equipment for a date range
type Booking struct {
	ID          string
	EquipmentID string
	RenterID    string
	StartDate   time.Time
	EndDate     time.Time
	TotalAmount float64
	Status      BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPending returns true if the booking still awaits an owner decision
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// BlocksCalendar returns true if the booking occupies its date range
func (b *Booking) BlocksCalendar() bool {
	return b.Status == StatusPending || b.Status == StatusApproved
}

// Overlaps returns true if the booking range intersects [start, end], inclusive
func (b *Booking) Overlaps(start, end time.Time) bool {
	return RangesOverlap(b.StartDate, b.EndDate, start, end)
}

// RangesOverlap reports whether two inclusive ranges intersect.
// Touching endpoints count as an overlap.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !(aEnd.Before(bStart) || aStart.After(bEnd))
}

// InclusiveDays number of calendar days charged for [start, end]:
// floor((end-start)/24h) + 1. start must not be after end.
func InclusiveDays(start, end time.Time) int64 {
	return int64(end.Sub(start)/(24*time.Hour)) + 1
}

// CalendarDay отбрасывает время суток: даты бронирований хранятся в колонках DATE
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BookingsFilter фильтр выборки бронирований
type BookingsFilter struct {
	EquipmentID *string         // Фильтр по технике (опционально)
	RenterID    *string         // Фильтр по арендатору (опционально)
	Statuses    []BookingStatus // Пустой список - любые статусы
	ExcludeID   *string         // Исключить бронирование (для повторной проверки пересечений)
	ForUpdate   bool            // Блокировать строки (только внутри транзакции)
}
