package decide_booking

import (
	"fmt"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID == "" {
		return fmt.Errorf("%w: bookingID is required", ErrInvalidInput)
	}

	if req.DeciderID == "" {
		return fmt.Errorf("%w: deciderID is required", ErrInvalidInput)
	}

	if !req.Decision.IsValid() {
		return fmt.Errorf("%w: decision must be approve or reject", ErrInvalidInput)
	}

	return nil
}

// findApprovedOverlap возвращает подтвержденное бронирование, пересекающееся с booking
func findApprovedOverlap(approved []*domain.Booking, booking *domain.Booking) *domain.Booking {
	for _, other := range approved {
		if other.ID == booking.ID || other.Status != domain.StatusApproved {
			continue
		}
		if other.Overlaps(booking.StartDate, booking.EndDate) {
			return other
		}
	}
	return nil
}
