package get_equipment

import (
	"context"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/equipment/models"
)

type EquipmentService interface {
	Get(ctx context.Context, id string) (*models.EquipmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
