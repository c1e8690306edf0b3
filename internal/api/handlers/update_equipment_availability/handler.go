package update_equipment_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/middleware"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/equipment"
)

const (
	msgMissingUserID      = "user is not authenticated"
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid date, expected YYYY-MM-DD"
	msgNotFound           = "equipment not found"
	msgForbidden          = "only the owner can change availability"
)

type Handler struct {
	service EquipmentService
	logger  Logger
}

func NewHandler(service EquipmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/equipment/{equipmentId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	equipmentID := mux.Vars(r)["equipmentId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /equipment/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(userID, equipmentID)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	updated, err := h.service.UpdateAvailability(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, equipment.ErrEquipmentNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, equipment.ErrAccessDenied):
			h.logger.Warn("PUT /equipment/{id}/availability - Access denied: equipment_id=%s, user_id=%s", equipmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, equipment.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /equipment/{id}/availability - Failed to update: equipment_id=%s, error=%v", equipmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /equipment/{id}/availability - Availability updated: equipment_id=%s", equipmentID)
	handlers.RespondJSON(w, http.StatusOK, updated)
}
