package post_message

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/middleware"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/messages"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/messages/models"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/logger"
)

const userID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

type mockService struct{ mock.Mock }

func (m *mockService) Post(ctx context.Context, req *models.PostMessageRequest) (*models.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MessageResponse), args.Error(1)
}

func serve(svc *mockService, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/equipment/{equipmentId}/messages", NewHandler(svc, logger.Nop()).Handle)
	req := httptest.NewRequest(http.MethodPost, "/equipment/eq-1/messages", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Created(t *testing.T) {
	svc := &mockService{}
	svc.On("Post", mock.Anything, &models.PostMessageRequest{
		UserID: userID, EquipmentID: "eq-1", RecipientID: "owner-1", Message: "available tomorrow?",
	}).Return(&models.MessageResponse{ID: "m-1"}, nil)

	rec := serve(svc, `{"recipientId":"owner-1","message":"available tomorrow?"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"Empty", fmt.Errorf("%w: message is empty", messages.ErrInvalidInput), http.StatusBadRequest},
		{"Too long", messages.ErrMessageTooLong, http.StatusBadRequest},
		{"No equipment", messages.ErrEquipmentNotFound, http.StatusNotFound},
		{"Store", messages.ErrStore, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Post", mock.Anything, mock.Anything).Return(nil, tt.err)
			rec := serve(svc, `{"recipientId":"owner-1","message":" "}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
