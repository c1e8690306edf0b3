package decide_booking

import (
	"time"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	decideBooking "github.com/kaamconnect/KaamConnect-RentalService/internal/usecase/decide_booking"
)

// DecideBookingRequest HTTP request model
type DecideBookingRequest struct {
	Decision string `json:"decision"` // approve | reject
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          string  `json:"id"`
	EquipmentID string  `json:"equipmentId"`
	RenterID    string  `json:"renterId"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	TotalAmount float64 `json:"totalAmount"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *DecideBookingRequest) ToUseCaseRequest(bookingID, deciderID string) *decideBooking.Request {
	return &decideBooking.Request{
		BookingID: bookingID,
		DeciderID: deciderID,
		Decision:  decideBooking.Decision(r.Decision),
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *decideBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		EquipmentID: resp.EquipmentID,
		RenterID:    resp.RenterID,
		StartDate:   resp.StartDate.Format(domain.DateFormat),
		EndDate:     resp.EndDate.Format(domain.DateFormat),
		TotalAmount: resp.TotalAmount,
		Status:      resp.Status,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
