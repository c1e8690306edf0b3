package get_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers"
	getAvailability "github.com/kaamconnect/KaamConnect-RentalService/internal/usecase/get_availability"
)

const (
	msgInvalidDate       = "invalid date, expected YYYY-MM-DD"
	msgInvalidRange      = "from must not be after to"
	msgEquipmentNotFound = "equipment not found"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/equipment/{equipmentId}/availability
// Query params: from, to (optional, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	equipmentID := mux.Vars(r)["equipmentId"]

	from, err := handlers.ParseOptionalDate(r.URL.Query().Get("from"))
	if err != nil {
		h.logger.Warn("GET /equipment/{id}/availability - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	to, err := handlers.ParseOptionalDate(r.URL.Query().Get("to"))
	if err != nil {
		h.logger.Warn("GET /equipment/{id}/availability - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		EquipmentID: equipmentID,
		From:        from,
		To:          to,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrEquipmentNotFound):
			h.logger.Warn("GET /equipment/{id}/availability - Equipment not found: equipment_id=%s", equipmentID)
			handlers.RespondNotFound(w, msgEquipmentNotFound)

		case errors.Is(err, getAvailability.ErrInvalidRange), errors.Is(err, getAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /equipment/{id}/availability - Failed to build calendar: equipment_id=%s, error=%v", equipmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /equipment/{id}/availability - Calendar built: equipment_id=%s, blocked=%d, free=%d",
		equipmentID, len(result.Blocked), len(result.Free))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
