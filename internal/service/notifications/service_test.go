package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	notificationRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/notification"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/notifications/models"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/logger"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit uint64) ([]*domain.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Notification), args.Error(1)
}

func (m *mockRepo) MarkRead(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func TestService_List(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, logger.Nop())

	repo.On("ListByUser", mock.Anything, "u-1", false, uint64(models.DefaultLimit)).Return([]*domain.Notification{
		{ID: "n-2", UserID: "u-1", Kind: domain.NotifBookingApproved},
		{ID: "n-1", UserID: "u-1", Kind: domain.NotifBookingRequested, Read: true},
	}, nil)

	resp, err := svc.List(context.Background(), &models.ListNotificationsRequest{RequesterID: "u-1", UserID: "u-1"})
	require.NoError(t, err)
	assert.Len(t, resp.Notifications, 2)
	assert.Equal(t, 1, resp.Unread)
	assert.Equal(t, "booking_approved", resp.Notifications[0].Type)
}

func TestService_ListForeignInbox(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, logger.Nop())

	_, err := svc.List(context.Background(), &models.ListNotificationsRequest{RequesterID: "u-2", UserID: "u-1"})
	assert.ErrorIs(t, err, ErrAccessDenied)
	repo.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_MarkRead(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, logger.Nop())

	repo.On("MarkRead", mock.Anything, "n-1", "u-1").Return(nil)
	repo.On("MarkRead", mock.Anything, "n-1", "u-2").Return(notificationRepo.ErrNotificationNotFound)
	repo.On("MarkRead", mock.Anything, "n-9", "u-1").Return(errors.New("db down"))

	assert.NoError(t, svc.MarkRead(context.Background(), "n-1", "u-1"))
	assert.ErrorIs(t, svc.MarkRead(context.Background(), "n-1", "u-2"), ErrNotificationNotFound)
	assert.ErrorIs(t, svc.MarkRead(context.Background(), "n-9", "u-1"), ErrStore)
}
