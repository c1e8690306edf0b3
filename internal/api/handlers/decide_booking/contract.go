package decide_booking

import (
	"context"

	decideBooking "github.com/kaamconnect/KaamConnect-RentalService/internal/usecase/decide_booking"
)

type DecideBookingUseCase interface {
	Execute(ctx context.Context, req *decideBooking.Request) (*decideBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
