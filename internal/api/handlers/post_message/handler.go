package post_message

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/middleware"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/messages"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/messages/models"
)

const (
	msgMissingUserID      = "user is not authenticated"
	msgInvalidRequestBody = "invalid request body"
	msgEquipmentNotFound  = "equipment not found"
	msgTooLong            = "message is too long"
)

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

// Handle POST /api/v1/equipment/{equipmentId}/messages
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	equipmentID := mux.Vars(r)["equipmentId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.PostMessageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /equipment/{id}/messages - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.EquipmentID = equipmentID

	created, err := h.service.Post(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, messages.ErrEquipmentNotFound):
			handlers.RespondNotFound(w, msgEquipmentNotFound)

		case errors.Is(err, messages.ErrMessageTooLong):
			handlers.RespondBadRequest(w, msgTooLong)

		case errors.Is(err, messages.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /equipment/{id}/messages - Failed to post: equipment_id=%s, error=%v", equipmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /equipment/{id}/messages - Message saved: message_id=%s", created.ID)
	handlers.RespondJSON(w, http.StatusCreated, created)
}
