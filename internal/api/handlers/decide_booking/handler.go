package decide_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/middleware"
	decideBooking "github.com/kaamconnect/KaamConnect-RentalService/internal/usecase/decide_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDecision    = "decision must be approve or reject"
	msgUnauthorized       = "user is not authenticated"
	msgNotFound           = "booking not found"
	msgForbidden          = "only the equipment owner can decide on this booking"
	msgNotPending         = "booking is no longer pending"
)

type Handler struct {
	useCase DecideBookingUseCase
	logger  Logger
}

func NewHandler(useCase DecideBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/decision
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	deciderID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	bookingID := mux.Vars(r)["bookingId"]

	var req DecideBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/decision - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if !decideBooking.Decision(req.Decision).IsValid() {
		handlers.RespondBadRequest(w, msgInvalidDecision)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID, deciderID))
	if err != nil {
		switch {
		case errors.Is(err, decideBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/decision - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, decideBooking.ErrUnauthorized):
			h.logger.Warn("PATCH /bookings/{id}/decision - Not the owner: booking_id=%s, user_id=%s", bookingID, deciderID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, decideBooking.ErrInvalidStateTransition):
			h.logger.Warn("PATCH /bookings/{id}/decision - Not pending: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgNotPending)

		case errors.Is(err, decideBooking.ErrOverlapConflict):
			h.logger.Warn("PATCH /bookings/{id}/decision - Overlap on approve: booking_id=%s: %v", bookingID, err)
			handlers.RespondConflict(w, err.Error())

		case errors.Is(err, decideBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /bookings/{id}/decision - Failed to decide: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/decision - Booking %s: booking_id=%s, owner_id=%s",
		result.Status, bookingID, deciderID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
