package get_equipment_bookings

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

const ownerID = "3b241101-e2bb-4255-8caf-4136c566a962"

type mockService struct{ mock.Mock }

func (m *mockService) GetEquipmentBookings(ctx context.Context, req *models.GetEquipmentBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingListResponse), args.Error(1)
}

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name       string
		resp       *models.BookingListResponse
		err        error
		wantStatus int
	}{
		{"Owner", &models.BookingListResponse{Bookings: []models.BookingResponse{}}, nil, http.StatusOK},
		{"Not owner", nil, bookings.ErrUnauthorized, http.StatusForbidden},
		{"No equipment", nil, bookings.ErrEquipmentNotFound, http.StatusNotFound},
		{"Bad status", nil, bookings.ErrInvalidInput, http.StatusBadRequest},
		{"Store", nil, bookings.ErrStore, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("GetEquipmentBookings", mock.Anything, &models.GetEquipmentBookingsRequest{
				UserID: ownerID, EquipmentID: "eq-1",
			}).Return(tt.resp, tt.err)

			r := mux.NewRouter()
			r.HandleFunc("/equipment/{equipmentId}/bookings", NewHandler(svc, logger.Nop()).Handle)
			req := httptest.NewRequest(http.MethodGet, "/equipment/eq-1/bookings", nil)
			req = req.WithContext(middleware.WithUserID(req.Context(), ownerID))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
