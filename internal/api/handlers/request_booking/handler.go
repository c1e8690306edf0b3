package request_booking

import (
	"errors"
	"net/http"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/middleware"
	requestBooking "github.com/kaamconnect/KaamConnect-RentalService/internal/usecase/request_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid date, expected YYYY-MM-DD or RFC3339 timestamp"
	msgUnauthorized       = "user is not authenticated"
	msgEquipmentNotFound  = "equipment not found"
	msgInvalidDateRange   = "start date must not be after end date"
	msgBookingTooLong     = "booking period cannot exceed 366 days"
	msgSelfBooking        = "you cannot book your own equipment"
	msgOutOfWindow        = "equipment is not available for the selected dates"
	msgInvalidHours       = "hours must be greater than zero for per-hour equipment"
)

type Handler struct {
	useCase RequestBookingUseCase
	logger  Logger
}

func NewHandler(useCase RequestBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	renterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req RequestBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(renterID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, requestBooking.ErrOverlapConflict):
			// Текст ошибки называет занятые даты
			h.logger.Warn("POST /bookings - Overlap: equipment_id=%s, renter_id=%s: %v", req.EquipmentID, renterID, err)
			handlers.RespondConflict(w, err.Error())

		case errors.Is(err, requestBooking.ErrEquipmentNotFound):
			h.logger.Warn("POST /bookings - Equipment not found: equipment_id=%s", req.EquipmentID)
			handlers.RespondNotFound(w, msgEquipmentNotFound)

		case errors.Is(err, requestBooking.ErrSelfBookingForbidden):
			h.logger.Warn("POST /bookings - Self booking: equipment_id=%s, renter_id=%s", req.EquipmentID, renterID)
			handlers.RespondForbidden(w, msgSelfBooking)

		case errors.Is(err, requestBooking.ErrInvalidDateRange):
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, requestBooking.ErrBookingTooLong):
			handlers.RespondBadRequest(w, msgBookingTooLong)

		case errors.Is(err, requestBooking.ErrOutOfAvailabilityWindow):
			handlers.RespondBadRequest(w, msgOutOfWindow)

		case errors.Is(err, requestBooking.ErrInvalidHours):
			handlers.RespondBadRequest(w, msgInvalidHours)

		case errors.Is(err, requestBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to request booking: equipment_id=%s, renter_id=%s, error=%v",
				req.EquipmentID, renterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking requested: booking_id=%s, equipment_id=%s, renter_id=%s",
		result.ID, result.EquipmentID, renterID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
