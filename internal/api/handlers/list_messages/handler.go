package list_messages

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/middleware"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/messages/models"
)

const msgMissingUserID = "user is not authenticated"

type Handler struct {
	service MessageService
	logger  Logger
}

func NewHandler(service MessageService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/equipment/{equipmentId}/messages
// Query params: with (optional) - собеседник
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	equipmentID := mux.Vars(r)["equipmentId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.List(r.Context(), &models.ListMessagesRequest{
		UserID:      userID,
		EquipmentID: equipmentID,
		With:        r.URL.Query().Get("with"),
	})
	if err != nil {
		h.logger.Error("GET /equipment/{id}/messages - Failed to list messages: equipment_id=%s, error=%v", equipmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
