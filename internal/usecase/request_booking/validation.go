package request_booking

import (
	"fmt"
	"time"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.EquipmentID == "" {
		return fmt.Errorf("%w: equipmentID is required", ErrInvalidInput)
	}

	if req.RenterID == "" {
		return fmt.Errorf("%w: renterID is required", ErrInvalidInput)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	if req.StartDate.After(req.EndDate) {
		return ErrInvalidDateRange
	}

	if domain.InclusiveDays(req.StartDate, req.EndDate) > domain.MaxBookingDays {
		return fmt.Errorf("%w: booking cannot exceed %d days", ErrBookingTooLong, domain.MaxBookingDays)
	}

	return nil
}

// calculateTotal считает стоимость аренды по типу цены
func calculateTotal(eq *domain.Equipment, start, end time.Time, hours *float64) (float64, error) {
	switch eq.PriceType {
	case domain.PricePerDay:
		return float64(domain.InclusiveDays(start, end)) * eq.RentalPrice, nil
	case domain.PricePerHour:
		if hours == nil || *hours <= 0 {
			return 0, ErrInvalidHours
		}
		return *hours * eq.RentalPrice, nil
	default:
		return 0, fmt.Errorf("%w: equipment id=%s has unsupported price type %q", ErrStore, eq.ID, eq.PriceType)
	}
}

// findOverlap возвращает первое бронирование, пересекающееся с [start, end]
func findOverlap(bookings []*domain.Booking, start, end time.Time) *domain.Booking {
	for _, b := range bookings {
		if b.BlocksCalendar() && b.Overlaps(start, end) {
			return b
		}
	}
	return nil
}

// overlapError описывает конфликт с указанием дат
func overlapError(conflict *domain.Booking) error {
	return fmt.Errorf("%w: %s to %s is already %s",
		ErrOverlapConflict,
		conflict.StartDate.Format(domain.DateFormat),
		conflict.EndDate.Format(domain.DateFormat),
		conflict.Status,
	)
}

// validateWindow проверяет, что даты входят в окно доступности
func validateWindow(eq *domain.Equipment, start, end time.Time) error {
	if eq.CoversRange(start, end) {
		return nil
	}

	window := "open"
	if eq.AvailabilityStart != nil || eq.AvailabilityEnd != nil {
		window = fmt.Sprintf("%s to %s", formatBound(eq.AvailabilityStart), formatBound(eq.AvailabilityEnd))
	}
	return fmt.Errorf("%w: available %s", ErrOutOfAvailabilityWindow, window)
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "any"
	}
	return t.Format(domain.DateFormat)
}
