package update_equipment_availability

import (
	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/equipment/models"
)

// UpdateAvailabilityRequest HTTP request model
type UpdateAvailabilityRequest struct {
	AvailabilityStart *string `json:"availabilityStart"` // null - без ограничения
	AvailabilityEnd   *string `json:"availabilityEnd"`
	RentalPrice       float64 `json:"rentalPrice"`
	PriceType         string  `json:"priceType"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateAvailabilityRequest) ToServiceRequest(userID, equipmentID string) (*models.UpdateAvailabilityRequest, error) {
	out := &models.UpdateAvailabilityRequest{
		UserID:      userID,
		EquipmentID: equipmentID,
		RentalPrice: r.RentalPrice,
		PriceType:   r.PriceType,
	}

	if r.AvailabilityStart != nil {
		start, err := handlers.ParseOptionalDate(*r.AvailabilityStart)
		if err != nil {
			return nil, err
		}
		out.AvailabilityStart = start
	}

	if r.AvailabilityEnd != nil {
		end, err := handlers.ParseOptionalDate(*r.AvailabilityEnd)
		if err != nil {
			return nil, err
		}
		out.AvailabilityEnd = end
	}

	return out, nil
}
