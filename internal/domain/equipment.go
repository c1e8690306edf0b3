package domain

import "time"

// PriceType how the rental price of an equipment item is charged
type PriceType string

const (
	PricePerHour PriceType = "per_hour"
	PricePerDay  PriceType = "per_day"
)

// IsValid reports whether the price type is one of the known values
func (p PriceType) IsValid() bool {
	return p == PricePerHour || p == PricePerDay
}

// EquipmentStatus listing status of an equipment item
type EquipmentStatus string

const (
	EquipmentAvailable   EquipmentStatus = "available"
	EquipmentUnavailable EquipmentStatus = "unavailable"
)

// Equipment represents a rentable tool or machine listed by its owner
type Equipment struct {
	ID            string
	OwnerID       string
	Name          string
	EquipmentType string
	RentalPrice   float64
	PriceType     PriceType
	Location      *string

	// Availability window, nil bound means open on that side
	AvailabilityStart *time.Time
	AvailabilityEnd   *time.Time

	Status    EquipmentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOwnedBy returns true if the user is the owner of the listing
func (e *Equipment) IsOwnedBy(userID string) bool {
	return e.OwnerID == userID
}

// CoversRange returns true if [start, end] lies inside the availability window
func (e *Equipment) CoversRange(start, end time.Time) bool {
	if e.AvailabilityStart != nil && start.Before(*e.AvailabilityStart) {
		return false
	}
	if e.AvailabilityEnd != nil && end.After(*e.AvailabilityEnd) {
		return false
	}
	return true
}
