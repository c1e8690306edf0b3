package request_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	equipmentRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/equipment"
)

// UseCase use case для запроса бронирования техники
type UseCase struct {
	bookingRepo   BookingRepository
	equipmentRepo EquipmentRepository
	notifier      Notifier
	txManager     TransactionManager
	metrics       Metrics
	logger        Logger
}

// NewUseCase создает новый экземпляр use case. metrics может быть nil.
func NewUseCase(
	bookingRepo BookingRepository,
	equipmentRepo EquipmentRepository,
	notifier Notifier,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		equipmentRepo: equipmentRepo,
		notifier:      notifier,
		txManager:     txManager,
		metrics:       metrics,
		logger:        logger,
	}
}

// Execute выполняет use case запроса бронирования.
// Проверка пересечений и вставка выполняются в сериализуемой транзакции
// под блокировкой строки техники.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// Сравниваем и тарифицируем календарные дни, как они будут сохранены
	normalized := *req
	req = &normalized
	req.StartDate = domain.CalendarDay(req.StartDate)
	req.EndDate = domain.CalendarDay(req.EndDate)

	uc.logger.Info("RequestBooking: renter=%s, equipment=%s, period=%s..%s",
		req.RenterID, req.EquipmentID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RequestBooking: validation failed: %v", err)
		uc.observe(err)
		return nil, err
	}

	var (
		equipment *domain.Equipment
		result    *domain.Booking
	)

	// 2. Выполняем проверки и вставку в транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем технику
		eq, err := uc.equipmentRepo.GetByIDForUpdate(txCtx, req.EquipmentID)
		if err != nil {
			if errors.Is(err, equipmentRepo.ErrEquipmentNotFound) {
				uc.logger.Warn("RequestBooking: equipment id=%s not found", req.EquipmentID)
				return ErrEquipmentNotFound
			}
			uc.logger.Error("RequestBooking: failed to get equipment id=%s: %v", req.EquipmentID, err)
			return fmt.Errorf("%w: RequestBooking - get equipment: %v", ErrStore, err)
		}
		equipment = eq

		// 2.2. Владелец не может арендовать свою технику
		if eq.IsOwnedBy(req.RenterID) {
			uc.logger.Warn("RequestBooking: user=%s tried to book own equipment id=%s", req.RenterID, eq.ID)
			return ErrSelfBookingForbidden
		}

		// 2.3. Окно доступности
		if err := validateWindow(eq, req.StartDate, req.EndDate); err != nil {
			uc.logger.Warn("RequestBooking: %v", err)
			return err
		}

		// 2.4. Стоимость
		total, err := calculateTotal(eq, req.StartDate, req.EndDate, req.Hours)
		if err != nil {
			uc.logger.Warn("RequestBooking: failed to calculate total: %v", err)
			return err
		}

		// 2.5. Пересечения с ожидающими и подтвержденными бронированиями
		existing, err := uc.bookingRepo.List(txCtx, domain.BookingsFilter{
			EquipmentID: &eq.ID,
			Statuses:    domain.BlockingStatuses,
			ForUpdate:   true,
		})
		if err != nil {
			uc.logger.Error("RequestBooking: failed to list bookings for equipment id=%s: %v", eq.ID, err)
			return fmt.Errorf("%w: RequestBooking - list bookings: %v", ErrStore, err)
		}

		if conflict := findOverlap(existing, req.StartDate, req.EndDate); conflict != nil {
			uc.logger.Warn("RequestBooking: overlap with booking id=%s", conflict.ID)
			return overlapError(conflict)
		}

		// 2.6. Создаем бронирование
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			EquipmentID: eq.ID,
			RenterID:    req.RenterID,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			TotalAmount: total,
			Status:      domain.StatusPending,
		})
		if err != nil {
			uc.logger.Error("RequestBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: RequestBooking - create booking: %v", ErrStore, err)
		}

		result = created
		return nil
	})

	if err != nil {
		uc.observe(err)
		if isDomainError(err) {
			return nil, err
		}
		uc.logger.Error("RequestBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: RequestBooking - transaction: %v", ErrStore, err)
	}

	// 3. Уведомляем владельца после фиксации транзакции
	uc.notifier.BookingRequested(ctx, equipment, result)

	uc.observe(nil)
	uc.logger.Info("RequestBooking: booking id=%s created, total=%.2f", result.ID, result.TotalAmount)

	return toResponse(result), nil
}

func (uc *UseCase) observe(err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.IncBookingRequest(resultLabel(err))
}

var domainErrors = []error{
	ErrInvalidInput,
	ErrInvalidDateRange,
	ErrBookingTooLong,
	ErrEquipmentNotFound,
	ErrSelfBookingForbidden,
	ErrOutOfAvailabilityWindow,
	ErrInvalidHours,
	ErrOverlapConflict,
	ErrStore,
}

func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, ErrOverlapConflict):
		return "overlap"
	case errors.Is(err, ErrStore):
		return "store_error"
	case isDomainError(err):
		return "rejected"
	default:
		return "store_error"
	}
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:          b.ID,
		EquipmentID: b.EquipmentID,
		RenterID:    b.RenterID,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		TotalAmount: b.TotalAmount,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
