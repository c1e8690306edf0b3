package messages

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	equipmentRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/equipment"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/messages/models"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/logger"
)

type mockMessageRepo struct{ mock.Mock }

func (m *mockMessageRepo) Create(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatMessage), args.Error(1)
}

func (m *mockMessageRepo) ListByEquipment(ctx context.Context, equipmentID, participantID string) ([]*domain.ChatMessage, error) {
	args := m.Called(ctx, equipmentID, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChatMessage), args.Error(1)
}

type mockEquipmentRepo struct{ mock.Mock }

func (m *mockEquipmentRepo) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

type recordingPublisher struct {
	changes []domain.MessageChange
	err     error
}

func (p *recordingPublisher) PublishChange(_ context.Context, change domain.MessageChange) error {
	p.changes = append(p.changes, change)
	return p.err
}

func TestService_Post(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Saves trimmed body and publishes insert", func(t *testing.T) {
		msgRepo := &mockMessageRepo{}
		eqRepo := &mockEquipmentRepo{}
		pub := &recordingPublisher{}
		svc := NewService(msgRepo, eqRepo, pub, logger.Nop())

		eqRepo.On("GetByID", mock.Anything, "eq-1").Return(&domain.Equipment{ID: "eq-1"}, nil)
		msgRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.ChatMessage) bool {
			return m.Body == "is the tractor free?"
		})).Return(&domain.ChatMessage{ID: "m-1", EquipmentID: "eq-1", SenderID: "u-1", RecipientID: "u-2", Body: "is the tractor free?", CreatedAt: now}, nil)

		resp, err := svc.Post(context.Background(), &models.PostMessageRequest{
			UserID: "u-1", EquipmentID: "eq-1", RecipientID: "u-2", Message: "  is the tractor free?  ",
		})
		require.NoError(t, err)
		assert.Equal(t, "m-1", resp.ID)
		require.Len(t, pub.changes, 1)
		assert.Equal(t, domain.ChangeInsert, pub.changes[0].Type)
		assert.Equal(t, "eq-1", pub.changes[0].EquipmentID)
	})

	t.Run("Publish failure does not fail the post", func(t *testing.T) {
		msgRepo := &mockMessageRepo{}
		eqRepo := &mockEquipmentRepo{}
		svc := NewService(msgRepo, eqRepo, &recordingPublisher{err: errors.New("redis down")}, logger.Nop())

		eqRepo.On("GetByID", mock.Anything, "eq-1").Return(&domain.Equipment{ID: "eq-1"}, nil)
		msgRepo.On("Create", mock.Anything, mock.Anything).Return(&domain.ChatMessage{ID: "m-1", EquipmentID: "eq-1"}, nil)

		_, err := svc.Post(context.Background(), &models.PostMessageRequest{
			UserID: "u-1", EquipmentID: "eq-1", RecipientID: "u-2", Message: "hi",
		})
		assert.NoError(t, err)
	})

	t.Run("Equipment not found", func(t *testing.T) {
		eqRepo := &mockEquipmentRepo{}
		svc := NewService(&mockMessageRepo{}, eqRepo, &recordingPublisher{}, logger.Nop())
		eqRepo.On("GetByID", mock.Anything, "eq-404").Return(nil, equipmentRepo.ErrEquipmentNotFound)

		_, err := svc.Post(context.Background(), &models.PostMessageRequest{
			UserID: "u-1", EquipmentID: "eq-404", RecipientID: "u-2", Message: "hi",
		})
		assert.ErrorIs(t, err, ErrEquipmentNotFound)
	})

	t.Run("Rejects invalid bodies", func(t *testing.T) {
		eqRepo := &mockEquipmentRepo{}
		msgRepo := &mockMessageRepo{}
		svc := NewService(msgRepo, eqRepo, &recordingPublisher{}, logger.Nop())
		eqRepo.On("GetByID", mock.Anything, "eq-1").Return(&domain.Equipment{ID: "eq-1"}, nil)

		_, err := svc.Post(context.Background(), &models.PostMessageRequest{UserID: "u-1", EquipmentID: "eq-1", RecipientID: "u-2", Message: "   "})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.Post(context.Background(), &models.PostMessageRequest{UserID: "u-1", EquipmentID: "eq-1", RecipientID: "u-1", Message: "hi"})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.Post(context.Background(), &models.PostMessageRequest{
			UserID: "u-1", EquipmentID: "eq-1", RecipientID: "u-2", Message: strings.Repeat("a", domain.MaxMessageLength+1),
		})
		assert.ErrorIs(t, err, ErrMessageTooLong)

		msgRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestService_List(t *testing.T) {
	msgRepo := &mockMessageRepo{}
	svc := NewService(msgRepo, &mockEquipmentRepo{}, &recordingPublisher{}, logger.Nop())

	msgRepo.On("ListByEquipment", mock.Anything, "eq-1", "owner").Return([]*domain.ChatMessage{
		{ID: "m-1", SenderID: "renter-a", RecipientID: "owner"},
		{ID: "m-2", SenderID: "owner", RecipientID: "renter-b"},
		{ID: "m-3", SenderID: "owner", RecipientID: "renter-a"},
	}, nil)

	all, err := svc.List(context.Background(), &models.ListMessagesRequest{UserID: "owner", EquipmentID: "eq-1"})
	require.NoError(t, err)
	assert.Len(t, all.Messages, 3)

	withA, err := svc.List(context.Background(), &models.ListMessagesRequest{UserID: "owner", EquipmentID: "eq-1", With: "renter-a"})
	require.NoError(t, err)
	require.Len(t, withA.Messages, 2)
	assert.Equal(t, "m-1", withA.Messages[0].ID)
	assert.Equal(t, "m-3", withA.Messages[1].ID)
}

func TestService_ListStoreError(t *testing.T) {
	msgRepo := &mockMessageRepo{}
	svc := NewService(msgRepo, &mockEquipmentRepo{}, &recordingPublisher{}, logger.Nop())
	msgRepo.On("ListByEquipment", mock.Anything, "eq-1", "u-1").Return(nil, errors.New("conn reset"))

	_, err := svc.List(context.Background(), &models.ListMessagesRequest{UserID: "u-1", EquipmentID: "eq-1"})
	assert.ErrorIs(t, err, ErrStore)
}
