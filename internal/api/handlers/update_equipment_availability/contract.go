package update_equipment_availability

import (
	"context"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/equipment/models"
)

type EquipmentService interface {
	UpdateAvailability(ctx context.Context, req *models.UpdateAvailabilityRequest) (*models.EquipmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
