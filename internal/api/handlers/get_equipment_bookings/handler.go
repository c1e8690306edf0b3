package get_equipment_bookings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/middleware"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/bookings"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/bookings/models"
)

const (
	msgMissingUserID     = "user is not authenticated"
	msgEquipmentNotFound = "equipment not found"
	msgForbidden         = "only the equipment owner can view its bookings"
	msgInvalidStatus     = "invalid status filter"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/equipment/{equipmentId}/bookings
// Query params: status (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	equipmentID := mux.Vars(r)["equipmentId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.GetEquipmentBookings(r.Context(), &models.GetEquipmentBookingsRequest{
		UserID:      userID,
		EquipmentID: equipmentID,
		Status:      handlers.OptionalQuery(r, "status"),
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrEquipmentNotFound):
			handlers.RespondNotFound(w, msgEquipmentNotFound)

		case errors.Is(err, bookings.ErrUnauthorized):
			h.logger.Warn("GET /equipment/{id}/bookings - Access denied: equipment_id=%s, user_id=%s", equipmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /equipment/{id}/bookings - Failed to get bookings: equipment_id=%s, error=%v", equipmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /equipment/{id}/bookings - Bookings retrieved: equipment_id=%s, count=%d", equipmentID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
