package request_booking

import (
	"context"

	requestBooking "github.com/kaamconnect/KaamConnect-RentalService/internal/usecase/request_booking"
)

type RequestBookingUseCase interface {
	Execute(ctx context.Context, req *requestBooking.Request) (*requestBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
