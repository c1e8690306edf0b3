package list_notifications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/middleware"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/notifications"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/notifications/models"
)

const (
	msgMissingUserID = "user is not authenticated"
	msgInvalidLimit  = "limit must be a positive number"
	msgForbidden     = "you can only view your own notifications"
)

type Handler struct {
	service NotificationService
	logger  Logger
}

func NewHandler(service NotificationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/{userId}/notifications
// Query params: unread (optional bool), limit (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.ListNotificationsRequest{
		RequesterID: requesterID,
		UserID:      userID,
		UnreadOnly:  r.URL.Query().Get("unread") == "true",
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || limit == 0 {
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		req.Limit = limit
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, notifications.ErrAccessDenied) {
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		h.logger.Error("GET /users/{userId}/notifications - Failed to list: user_id=%s, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
