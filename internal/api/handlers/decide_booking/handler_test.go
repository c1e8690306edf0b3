package decide_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/middleware"
	decideBooking "github.com/kaamconnect/KaamConnect-RentalService/internal/usecase/decide_booking"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/logger"
)

const ownerID = "3b241101-e2bb-4255-8caf-4136c566a962"

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *decideBooking.Request) (*decideBooking.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*decideBooking.Response), args.Error(1)
}

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/bookings/{bookingId}/decision", h.Handle)

	req := httptest.NewRequest(http.MethodPatch, "/bookings/b-1/decision", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), ownerID))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Approve(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, logger.Nop())

	uc.On("Execute", mock.Anything, &decideBooking.Request{
		BookingID: "b-1", DeciderID: ownerID, Decision: decideBooking.DecisionApprove,
	}).Return(&decideBooking.Response{ID: "b-1", Status: "approved"}, nil)

	rec := serve(h, `{"decision":"approve"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "approved", resp.Status)
}

func TestHandler_InvalidDecision(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, logger.Nop())

	rec := serve(h, `{"decision":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"Not found", decideBooking.ErrBookingNotFound, http.StatusNotFound},
		{"Not owner", decideBooking.ErrUnauthorized, http.StatusForbidden},
		{"Not pending", decideBooking.ErrInvalidStateTransition, http.StatusConflict},
		{"Overlap", fmt.Errorf("%w: 2024-03-11 to 2024-03-13 is already approved", decideBooking.ErrOverlapConflict), http.StatusConflict},
		{"Store", fmt.Errorf("%w: boom", decideBooking.ErrStore), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			h := NewHandler(uc, logger.Nop())
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(h, `{"decision":"reject"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
