package get_availability

import (
	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	getAvailability "github.com/kaamconnect/KaamConnect-RentalService/internal/usecase/get_availability"
)

// RangeResponse диапазон дат включительно
type RangeResponse struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Status string `json:"status,omitempty"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	EquipmentID string          `json:"equipmentId"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	PriceType   string          `json:"priceType"`
	RentalPrice float64         `json:"rentalPrice"`
	Blocked     []RangeResponse `json:"blocked"`
	Free        []RangeResponse `json:"free"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		EquipmentID: resp.EquipmentID,
		From:        resp.From.Format(domain.DateFormat),
		To:          resp.To.Format(domain.DateFormat),
		PriceType:   string(resp.PriceType),
		RentalPrice: resp.RentalPrice,
		Blocked:     make([]RangeResponse, 0, len(resp.Blocked)),
		Free:        make([]RangeResponse, 0, len(resp.Free)),
	}

	for _, b := range resp.Blocked {
		out.Blocked = append(out.Blocked, RangeResponse{
			Start:  b.Start.Format(domain.DateFormat),
			End:    b.End.Format(domain.DateFormat),
			Status: string(b.Status),
		})
	}
	for _, f := range resp.Free {
		out.Free = append(out.Free, RangeResponse{
			Start: f.Start.Format(domain.DateFormat),
			End:   f.End.Format(domain.DateFormat),
		})
	}

	return out
}
