package models

import (
	"time"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// UpdateAvailabilityRequest запрос владельца на изменение окна доступности и цены
type UpdateAvailabilityRequest struct {
	UserID            string     `json:"userId"`
	EquipmentID       string     `json:"equipmentId"`
	AvailabilityStart *time.Time `json:"availabilityStart,omitempty"` // nil - без ограничения
	AvailabilityEnd   *time.Time `json:"availabilityEnd,omitempty"`   // nil - без ограничения
	RentalPrice       float64    `json:"rentalPrice"`
	PriceType         string     `json:"priceType"`
}

// EquipmentResponse ответ с данными техники
type EquipmentResponse struct {
	ID                string     `json:"id"`
	OwnerID           string     `json:"ownerId"`
	Name              string     `json:"name"`
	EquipmentType     string     `json:"equipmentType"`
	RentalPrice       float64    `json:"rentalPrice"`
	PriceType         string     `json:"priceType"`
	Location          *string    `json:"location,omitempty"`
	AvailabilityStart *time.Time `json:"availabilityStart,omitempty"`
	AvailabilityEnd   *time.Time `json:"availabilityEnd,omitempty"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// FromDomainEquipment конвертирует domain модель в DTO
func FromDomainEquipment(eq *domain.Equipment) *EquipmentResponse {
	if eq == nil {
		return nil
	}

	return &EquipmentResponse{
		ID:                eq.ID,
		OwnerID:           eq.OwnerID,
		Name:              eq.Name,
		EquipmentType:     eq.EquipmentType,
		RentalPrice:       eq.RentalPrice,
		PriceType:         string(eq.PriceType),
		Location:          eq.Location,
		AvailabilityStart: eq.AvailabilityStart,
		AvailabilityEnd:   eq.AvailabilityEnd,
		Status:            string(eq.Status),
		CreatedAt:         eq.CreatedAt,
		UpdatedAt:         eq.UpdatedAt,
	}
}
