package get_user_bookings

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
	msgMissingUserID = "user is not authenticated"
	msgForbidden     = "you can only view your own bookings"
	msgInvalidStatus = "invalid status filter"
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

// Handle GET /api/v1/users/{userId}/bookings
// Query params: status (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if requesterID != userID {
		h.logger.Warn("GET /users/{userId}/bookings - Access denied: user_id=%s, requester=%s", userID, requesterID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.service.GetUserBookings(r.Context(), &models.GetUserBookingsRequest{
		UserID: userID,
		Status: handlers.OptionalQuery(r, "status"),
	})
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		h.logger.Error("GET /users/{userId}/bookings - Failed to get bookings: user_id=%s, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /users/{userId}/bookings - Bookings retrieved: user_id=%s, count=%d", userID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
