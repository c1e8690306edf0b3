package mark_notification_read

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/middleware"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/notifications"
)

const (
	msgMissingUserID = "user is not authenticated"
	msgNotFound      = "notification not found"
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

// Handle PATCH /api/v1/notifications/{notificationId}/read
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	notificationID := mux.Vars(r)["notificationId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.MarkRead(r.Context(), notificationID, userID); err != nil {
		if errors.Is(err, notifications.ErrNotificationNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("PATCH /notifications/{id}/read - Failed: notification_id=%s, error=%v", notificationID, err)
		handlers.RespondInternalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
