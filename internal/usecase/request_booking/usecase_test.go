package request_booking

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
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/logger"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type mockEquipmentRepo struct{ mock.Mock }

func (m *mockEquipmentRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) BookingRequested(ctx context.Context, eq *domain.Equipment, b *domain.Booking) {
	m.Called(ctx, eq, b)
}

type passthroughTx struct{ err error }

func (t passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return t.err
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func tractor() *domain.Equipment {
	start, end := day(1), day(31)
	return &domain.Equipment{
		ID:                "eq-1",
		OwnerID:           "owner-1",
		Name:              "Tractor",
		RentalPrice:       500,
		PriceType:         domain.PricePerDay,
		AvailabilityStart: &start,
		AvailabilityEnd:   &end,
		Status:            domain.EquipmentAvailable,
	}
}

type fixture struct {
	bookings  *mockBookingRepo
	equipment *mockEquipmentRepo
	notifier  *mockNotifier
	uc        *UseCase
}

func newFixture(tx passthroughTx) *fixture {
	f := &fixture{
		bookings:  &mockBookingRepo{},
		equipment: &mockEquipmentRepo{},
		notifier:  &mockNotifier{},
	}
	f.uc = NewUseCase(f.bookings, f.equipment, f.notifier, tx, nil, logger.Nop())
	return f
}

func TestUseCase_Execute_PerDayTotal(t *testing.T) {
	f := newFixture(passthroughTx{})
	eq := tractor()

	f.equipment.On("GetByIDForUpdate", mock.Anything, "eq-1").Return(eq, nil)
	f.bookings.On("List", mock.Anything, mock.MatchedBy(func(filter domain.BookingsFilter) bool {
		return *filter.EquipmentID == "eq-1" && filter.ForUpdate &&
			assert.ObjectsAreEqual(domain.BlockingStatuses, filter.Statuses)
	})).Return([]*domain.Booking{}, nil)
	f.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.TotalAmount == 1500 && b.Status == domain.StatusPending && b.RenterID == "renter-1"
	})).Return(&domain.Booking{
		ID: "b-1", EquipmentID: "eq-1", RenterID: "renter-1",
		StartDate: day(5), EndDate: day(7), TotalAmount: 1500, Status: domain.StatusPending,
	}, nil)
	f.notifier.On("BookingRequested", mock.Anything, eq, mock.AnythingOfType("*domain.Booking")).Return()

	resp, err := f.uc.Execute(context.Background(), &Request{
		EquipmentID: "eq-1", RenterID: "renter-1", StartDate: day(5), EndDate: day(7),
	})
	require.NoError(t, err)
	assert.Equal(t, "b-1", resp.ID)
	assert.Equal(t, 1500.0, resp.TotalAmount)
	assert.Equal(t, "pending", resp.Status)

	f.bookings.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestUseCase_Execute_PerHour(t *testing.T) {
	eq := tractor()
	eq.PriceType = domain.PricePerHour
	eq.RentalPrice = 120

	t.Run("Positive hours", func(t *testing.T) {
		f := newFixture(passthroughTx{})
		hours := 2.5

		f.equipment.On("GetByIDForUpdate", mock.Anything, "eq-1").Return(eq, nil)
		f.bookings.On("List", mock.Anything, mock.Anything).Return([]*domain.Booking{}, nil)
		f.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.TotalAmount == 300
		})).Return(&domain.Booking{ID: "b-1", TotalAmount: 300, Status: domain.StatusPending}, nil)
		f.notifier.On("BookingRequested", mock.Anything, mock.Anything, mock.Anything).Return()

		resp, err := f.uc.Execute(context.Background(), &Request{
			EquipmentID: "eq-1", RenterID: "renter-1", StartDate: day(5), EndDate: day(5), Hours: &hours,
		})
		require.NoError(t, err)
		assert.Equal(t, 300.0, resp.TotalAmount)
	})

	for name, hours := range map[string]*float64{"Missing hours": nil, "Zero hours": new(float64)} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(passthroughTx{})
			f.equipment.On("GetByIDForUpdate", mock.Anything, "eq-1").Return(eq, nil)

			_, err := f.uc.Execute(context.Background(), &Request{
				EquipmentID: "eq-1", RenterID: "renter-1", StartDate: day(5), EndDate: day(5), Hours: hours,
			})
			assert.ErrorIs(t, err, ErrInvalidHours)
			f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUseCase_Execute_OverlapWithApproved(t *testing.T) {
	f := newFixture(passthroughTx{})

	f.equipment.On("GetByIDForUpdate", mock.Anything, "eq-1").Return(tractor(), nil)
	f.bookings.On("List", mock.Anything, mock.Anything).Return([]*domain.Booking{
		{ID: "b-a", StartDate: day(5), EndDate: day(7), Status: domain.StatusApproved},
	}, nil)

	_, err := f.uc.Execute(context.Background(), &Request{
		EquipmentID: "eq-1", RenterID: "renter-2", StartDate: day(6), EndDate: day(8),
	})
	require.ErrorIs(t, err, ErrOverlapConflict)
	assert.Contains(t, err.Error(), "2024-01-05 to 2024-01-07")

	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "BookingRequested", mock.Anything, mock.Anything, mock.Anything)
}

func TestUseCase_Execute_TimeOfDayIsTruncated(t *testing.T) {
	t.Run("Shared end day with approved booking", func(t *testing.T) {
		f := newFixture(passthroughTx{})
		f.equipment.On("GetByIDForUpdate", mock.Anything, "eq-1").Return(tractor(), nil)
		f.bookings.On("List", mock.Anything, mock.Anything).Return([]*domain.Booking{
			{ID: "b-a", StartDate: day(5), EndDate: day(7), Status: domain.StatusApproved},
		}, nil)

		_, err := f.uc.Execute(context.Background(), &Request{
			EquipmentID: "eq-1", RenterID: "renter-2",
			StartDate: time.Date(2024, 1, 7, 10, 0, 0, 0, time.UTC), EndDate: day(8),
		})
		require.ErrorIs(t, err, ErrOverlapConflict)
		f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Stored dates and total use calendar days", func(t *testing.T) {
		f := newFixture(passthroughTx{})
		f.equipment.On("GetByIDForUpdate", mock.Anything, "eq-1").Return(tractor(), nil)
		f.bookings.On("List", mock.Anything, mock.Anything).Return([]*domain.Booking{}, nil)
		f.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.StartDate.Equal(day(30)) && b.EndDate.Equal(day(31)) && b.TotalAmount == 1000
		})).Return(&domain.Booking{ID: "b-1", StartDate: day(30), EndDate: day(31), TotalAmount: 1000}, nil)
		f.notifier.On("BookingRequested", mock.Anything, mock.Anything, mock.Anything).Return()

		// Конец окна 31 января, время суток не выводит запрос за окно
		resp, err := f.uc.Execute(context.Background(), &Request{
			EquipmentID: "eq-1", RenterID: "renter-2",
			StartDate: time.Date(2024, 1, 30, 18, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Equal(t, 1000.0, resp.TotalAmount)
		f.bookings.AssertExpectations(t)
	})
}

func TestUseCase_Execute_OverlapBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		existing   *domain.Booking
		wantCreate bool
	}{
		{
			name:     "Touching end date counts as overlap",
			existing: &domain.Booking{ID: "b-a", StartDate: day(1), EndDate: day(5), Status: domain.StatusPending},
		},
		{
			name:       "Adjacent day is free",
			existing:   &domain.Booking{ID: "b-a", StartDate: day(1), EndDate: day(4), Status: domain.StatusPending},
			wantCreate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(passthroughTx{})
			f.equipment.On("GetByIDForUpdate", mock.Anything, "eq-1").Return(tractor(), nil)
			f.bookings.On("List", mock.Anything, mock.Anything).Return([]*domain.Booking{tt.existing}, nil)
			if tt.wantCreate {
				f.bookings.On("Create", mock.Anything, mock.Anything).Return(&domain.Booking{ID: "b-2", Status: domain.StatusPending}, nil)
				f.notifier.On("BookingRequested", mock.Anything, mock.Anything, mock.Anything).Return()
			}

			_, err := f.uc.Execute(context.Background(), &Request{
				EquipmentID: "eq-1", RenterID: "renter-2", StartDate: day(5), EndDate: day(6),
			})
			if tt.wantCreate {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrOverlapConflict)
			}
		})
	}
}

func TestUseCase_Execute_Rejections(t *testing.T) {
	t.Run("Self booking before any write", func(t *testing.T) {
		f := newFixture(passthroughTx{})
		f.equipment.On("GetByIDForUpdate", mock.Anything, "eq-1").Return(tractor(), nil)

		_, err := f.uc.Execute(context.Background(), &Request{
			EquipmentID: "eq-1", RenterID: "owner-1", StartDate: day(5), EndDate: day(7),
		})
		assert.ErrorIs(t, err, ErrSelfBookingForbidden)
		f.bookings.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Start after end", func(t *testing.T) {
		f := newFixture(passthroughTx{})

		_, err := f.uc.Execute(context.Background(), &Request{
			EquipmentID: "eq-1", RenterID: "renter-1", StartDate: day(7), EndDate: day(5),
		})
		assert.ErrorIs(t, err, ErrInvalidDateRange)
		f.equipment.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Period too long", func(t *testing.T) {
		f := newFixture(passthroughTx{})

		_, err := f.uc.Execute(context.Background(), &Request{
			EquipmentID: "eq-1", RenterID: "renter-1", StartDate: day(1), EndDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		})
		assert.ErrorIs(t, err, ErrBookingTooLong)
		assert.NotErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("Outside availability window", func(t *testing.T) {
		f := newFixture(passthroughTx{})
		f.equipment.On("GetByIDForUpdate", mock.Anything, "eq-1").Return(tractor(), nil)

		_, err := f.uc.Execute(context.Background(), &Request{
			EquipmentID: "eq-1", RenterID: "renter-1", StartDate: day(30), EndDate: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
		})
		assert.ErrorIs(t, err, ErrOutOfAvailabilityWindow)
	})

	t.Run("Equipment not found", func(t *testing.T) {
		f := newFixture(passthroughTx{})
		f.equipment.On("GetByIDForUpdate", mock.Anything, "eq-404").Return(nil, equipmentRepo.ErrEquipmentNotFound)

		_, err := f.uc.Execute(context.Background(), &Request{
			EquipmentID: "eq-404", RenterID: "renter-1", StartDate: day(5), EndDate: day(7),
		})
		assert.ErrorIs(t, err, ErrEquipmentNotFound)
	})

	t.Run("Missing renter", func(t *testing.T) {
		f := newFixture(passthroughTx{})

		_, err := f.uc.Execute(context.Background(), &Request{EquipmentID: "eq-1", StartDate: day(5), EndDate: day(7)})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestUseCase_Execute_StoreErrors(t *testing.T) {
	t.Run("Equipment lookup failure", func(t *testing.T) {
		f := newFixture(passthroughTx{})
		f.equipment.On("GetByIDForUpdate", mock.Anything, "eq-1").Return(nil, errors.New("connection reset"))

		_, err := f.uc.Execute(context.Background(), &Request{
			EquipmentID: "eq-1", RenterID: "renter-1", StartDate: day(5), EndDate: day(7),
		})
		assert.ErrorIs(t, err, ErrStore)
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("Insert failure", func(t *testing.T) {
		f := newFixture(passthroughTx{})
		f.equipment.On("GetByIDForUpdate", mock.Anything, "eq-1").Return(tractor(), nil)
		f.bookings.On("List", mock.Anything, mock.Anything).Return([]*domain.Booking{}, nil)
		f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("check constraint"))

		_, err := f.uc.Execute(context.Background(), &Request{
			EquipmentID: "eq-1", RenterID: "renter-1", StartDate: day(5), EndDate: day(7),
		})
		assert.ErrorIs(t, err, ErrStore)
		f.notifier.AssertNotCalled(t, "BookingRequested", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Commit failure", func(t *testing.T) {
		f := newFixture(passthroughTx{err: errors.New("could not serialize access")})
		f.equipment.On("GetByIDForUpdate", mock.Anything, "eq-1").Return(tractor(), nil)
		f.bookings.On("List", mock.Anything, mock.Anything).Return([]*domain.Booking{}, nil)
		f.bookings.On("Create", mock.Anything, mock.Anything).Return(&domain.Booking{ID: "b-1"}, nil)

		_, err := f.uc.Execute(context.Background(), &Request{
			EquipmentID: "eq-1", RenterID: "renter-1", StartDate: day(5), EndDate: day(7),
		})
		assert.ErrorIs(t, err, ErrStore)
		f.notifier.AssertNotCalled(t, "BookingRequested", mock.Anything, mock.Anything, mock.Anything)
	})
}
