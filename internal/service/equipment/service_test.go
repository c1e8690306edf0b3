package equipment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	equipmentRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/equipment"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/equipment/models"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/logger"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

func (m *mockRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

func (m *mockRepo) UpdateAvailability(ctx context.Context, id string, start, end *time.Time, price float64, priceType domain.PriceType) (*domain.Equipment, error) {
	args := m.Called(ctx, id, start, end, price, priceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestService_Get(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, passthroughTx{}, logger.Nop())

	repo.On("GetByID", mock.Anything, "eq-1").Return(&domain.Equipment{ID: "eq-1", PriceType: domain.PricePerDay}, nil)
	repo.On("GetByID", mock.Anything, "eq-404").Return(nil, equipmentRepo.ErrEquipmentNotFound)
	repo.On("GetByID", mock.Anything, "eq-err").Return(nil, errors.New("timeout"))

	resp, err := svc.Get(context.Background(), "eq-1")
	require.NoError(t, err)
	assert.Equal(t, "per_day", resp.PriceType)

	_, err = svc.Get(context.Background(), "eq-404")
	assert.ErrorIs(t, err, ErrEquipmentNotFound)

	_, err = svc.Get(context.Background(), "eq-err")
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_UpdateAvailability(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	t.Run("Owner updates window", func(t *testing.T) {
		repo := &mockRepo{}
		svc := NewService(repo, passthroughTx{}, logger.Nop())

		repo.On("GetByIDForUpdate", mock.Anything, "eq-1").Return(&domain.Equipment{ID: "eq-1", OwnerID: "owner-1"}, nil)
		repo.On("UpdateAvailability", mock.Anything, "eq-1", &start, &end, 500.0, domain.PricePerDay).
			Return(&domain.Equipment{ID: "eq-1", OwnerID: "owner-1", RentalPrice: 500, PriceType: domain.PricePerDay, AvailabilityStart: &start, AvailabilityEnd: &end}, nil)

		resp, err := svc.UpdateAvailability(context.Background(), &models.UpdateAvailabilityRequest{
			UserID: "owner-1", EquipmentID: "eq-1", AvailabilityStart: &start, AvailabilityEnd: &end, RentalPrice: 500, PriceType: "per_day",
		})
		require.NoError(t, err)
		assert.Equal(t, 500.0, resp.RentalPrice)
	})

	t.Run("Not the owner", func(t *testing.T) {
		repo := &mockRepo{}
		svc := NewService(repo, passthroughTx{}, logger.Nop())
		repo.On("GetByIDForUpdate", mock.Anything, "eq-1").Return(&domain.Equipment{ID: "eq-1", OwnerID: "owner-1"}, nil)

		_, err := svc.UpdateAvailability(context.Background(), &models.UpdateAvailabilityRequest{
			UserID: "renter-1", EquipmentID: "eq-1", RentalPrice: 500, PriceType: "per_day",
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
		repo.AssertNotCalled(t, "UpdateAvailability", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Validation", func(t *testing.T) {
		svc := NewService(&mockRepo{}, passthroughTx{}, logger.Nop())

		for _, req := range []*models.UpdateAvailabilityRequest{
			{EquipmentID: "eq-1", AvailabilityStart: &end, AvailabilityEnd: &start, RentalPrice: 1, PriceType: "per_day"},
			{EquipmentID: "eq-1", RentalPrice: 0, PriceType: "per_day"},
			{EquipmentID: "eq-1", RentalPrice: 10, PriceType: "per_week"},
		} {
			_, err := svc.UpdateAvailability(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		}
	})
}
