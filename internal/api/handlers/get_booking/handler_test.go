package get_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/middleware"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/bookings"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/bookings/models"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/logger"
)

const userID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

type mockService struct{ mock.Mock }

func (m *mockService) GetByID(ctx context.Context, id string, userID string) (*models.BookingResponse, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingResponse), args.Error(1)
}

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name       string
		resp       *models.BookingResponse
		err        error
		wantStatus int
	}{
		{"Found", &models.BookingResponse{ID: "b-1"}, nil, http.StatusOK},
		{"Not found", nil, bookings.ErrBookingNotFound, http.StatusNotFound},
		{"Stranger", nil, bookings.ErrUnauthorized, http.StatusForbidden},
		{"Store", nil, bookings.ErrStore, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("GetByID", mock.Anything, "b-1", userID).Return(tt.resp, tt.err)

			r := mux.NewRouter()
			r.HandleFunc("/bookings/{bookingId}", NewHandler(svc, logger.Nop()).Handle)
			req := httptest.NewRequest(http.MethodGet, "/bookings/b-1", nil)
			req = req.WithContext(middleware.WithUserID(req.Context(), userID))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
