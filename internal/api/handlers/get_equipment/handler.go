package get_equipment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/equipment"
)

const msgNotFound = "equipment not found"

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

// Handle GET /api/v1/equipment/{equipmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	equipmentID := mux.Vars(r)["equipmentId"]

	eq, err := h.service.Get(r.Context(), equipmentID)
	if err != nil {
		if errors.Is(err, equipment.ErrEquipmentNotFound) {
			h.logger.Warn("GET /equipment/{id} - Equipment not found: equipment_id=%s", equipmentID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /equipment/{id} - Failed to get equipment: equipment_id=%s, error=%v", equipmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, eq)
}
