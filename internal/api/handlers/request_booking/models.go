package request_booking

import (
	"time"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	requestBooking "github.com/kaamconnect/KaamConnect-RentalService/internal/usecase/request_booking"
)

// RequestBookingRequest HTTP request model
type RequestBookingRequest struct {
	EquipmentID string   `json:"equipmentId"`
	StartDate   string   `json:"startDate"` // "2024-03-10"
	EndDate     string   `json:"endDate"`
	Hours       *float64 `json:"hours,omitempty"` // только для почасовой аренды
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
func (r *RequestBookingRequest) ToUseCaseRequest(renterID string) (*requestBooking.Request, error) {
	start, err := handlers.ParseDate(r.StartDate)
	if err != nil {
		return nil, err
	}

	end, err := handlers.ParseDate(r.EndDate)
	if err != nil {
		return nil, err
	}

	return &requestBooking.Request{
		EquipmentID: r.EquipmentID,
		RenterID:    renterID,
		StartDate:   start,
		EndDate:     end,
		Hours:       r.Hours,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *requestBooking.Response) *BookingResponse {
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
