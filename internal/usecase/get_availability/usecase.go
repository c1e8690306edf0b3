package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	equipmentRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/equipment"
)

// UseCase use case для получения календаря доступности техники
type UseCase struct {
	bookingRepo   BookingRepository
	equipmentRepo EquipmentRepository
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, equipmentRepo EquipmentRepository, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		equipmentRepo: equipmentRepo,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case получения календаря
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: equipment=%s", req.EquipmentID)

	// 1. Валидация входных данных
	if req.EquipmentID == "" {
		return nil, fmt.Errorf("%w: equipmentID is required", ErrInvalidInput)
	}

	// 2. Получаем технику
	eq, err := uc.equipmentRepo.GetByID(ctx, req.EquipmentID)
	if err != nil {
		if errors.Is(err, equipmentRepo.ErrEquipmentNotFound) {
			uc.logger.Warn("GetAvailability: equipment id=%s not found", req.EquipmentID)
			return nil, ErrEquipmentNotFound
		}
		uc.logger.Error("GetAvailability: failed to get equipment id=%s: %v", req.EquipmentID, err)
		return nil, fmt.Errorf("%w: failed to get equipment: %v", ErrInternal, err)
	}

	// 3. Период календаря
	from, to := resolvePeriod(eq, req, uc.timeProvider.Now())
	if from.After(to) {
		uc.logger.Warn("GetAvailability: invalid period %s..%s", from.Format(domain.DateFormat), to.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: from is after to", ErrInvalidRange)
	}
	if domain.InclusiveDays(from, to) > domain.MaxBookingDays {
		return nil, fmt.Errorf("%w: period cannot exceed %d days", ErrInvalidRange, domain.MaxBookingDays)
	}

	response := &Response{
		EquipmentID: eq.ID,
		From:        from,
		To:          to,
		PriceType:   eq.PriceType,
		RentalPrice: eq.RentalPrice,
		Blocked:     []BlockedRange{},
		Free:        []DateRange{},
	}

	// 4. Занятые периоды
	bookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{
		EquipmentID: &eq.ID,
		Statuses:    domain.BlockingStatuses,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list bookings for equipment id=%s: %v", eq.ID, err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}
	response.Blocked = blockedRanges(bookings, from, to)

	// 5. Свободные периоды только внутри окна доступности
	if windowFrom, windowTo, ok := clipToWindow(eq, from, to); ok && eq.Status != domain.EquipmentUnavailable {
		response.Free = freeRanges(response.Blocked, windowFrom, windowTo)
	}

	uc.logger.Info("GetAvailability: equipment=%s, blocked=%d, free=%d", eq.ID, len(response.Blocked), len(response.Free))
	return response, nil
}
