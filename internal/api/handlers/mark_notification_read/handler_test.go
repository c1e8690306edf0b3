package mark_notification_read

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/middleware"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/notifications"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/logger"
)

const userID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

type mockService struct{ mock.Mock }

func (m *mockService) MarkRead(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func TestHandler_Handle(t *testing.T) {
	svc := &mockService{}
	svc.On("MarkRead", mock.Anything, "n-1", userID).Return(nil)
	svc.On("MarkRead", mock.Anything, "n-2", userID).Return(notifications.ErrNotificationNotFound)
	svc.On("MarkRead", mock.Anything, "n-3", userID).Return(notifications.ErrStore)

	r := mux.NewRouter()
	r.HandleFunc("/notifications/{notificationId}/read", NewHandler(svc, logger.Nop()).Handle)

	for id, want := range map[string]int{
		"n-1": http.StatusNoContent,
		"n-2": http.StatusNotFound,
		"n-3": http.StatusInternalServerError,
	} {
		req := httptest.NewRequest(http.MethodPatch, "/notifications/"+id+"/read", nil)
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, id)
	}
}
