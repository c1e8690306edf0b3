package decide_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	bookingRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/booking"
	equipmentRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/equipment"
)

// UseCase use case для одобрения или отклонения бронирования владельцем
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

// Execute выполняет use case решения по бронированию.
// Строки блокируются в порядке техника -> бронирования, как и в request_booking.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("DecideBooking: booking=%s, decider=%s, decision=%s", req.BookingID, req.DeciderID, req.Decision)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("DecideBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование, чтобы узнать технику
	current, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		err = uc.bookingLookupError(req.BookingID, err)
		uc.observe(req.Decision, err)
		return nil, err
	}

	var (
		equipment *domain.Equipment
		result    *domain.Booking
	)

	// 3. Проверки и смена статуса в транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем технику
		eq, err := uc.equipmentRepo.GetByIDForUpdate(txCtx, current.EquipmentID)
		if err != nil {
			if errors.Is(err, equipmentRepo.ErrEquipmentNotFound) {
				uc.logger.Error("DecideBooking: equipment id=%s of booking id=%s not found", current.EquipmentID, req.BookingID)
			} else {
				uc.logger.Error("DecideBooking: failed to get equipment id=%s: %v", current.EquipmentID, err)
			}
			return fmt.Errorf("%w: DecideBooking - get equipment: %v", ErrStore, err)
		}
		equipment = eq

		// 3.2. Решение принимает только владелец
		if !eq.IsOwnedBy(req.DeciderID) {
			uc.logger.Warn("DecideBooking: user=%s is not owner of equipment id=%s", req.DeciderID, eq.ID)
			return ErrUnauthorized
		}

		// 3.3. Перечитываем бронирование под блокировкой
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			return uc.bookingLookupError(req.BookingID, err)
		}

		if !booking.IsPending() {
			uc.logger.Warn("DecideBooking: booking id=%s is %s", booking.ID, booking.Status)
			return fmt.Errorf("%w: booking is %s", ErrInvalidStateTransition, booking.Status)
		}

		// 3.4. Повторная проверка пересечений при одобрении
		if req.Decision == DecisionApprove {
			approved, err := uc.bookingRepo.List(txCtx, domain.BookingsFilter{
				EquipmentID: &eq.ID,
				Statuses:    []domain.BookingStatus{domain.StatusApproved},
				ExcludeID:   &booking.ID,
				ForUpdate:   true,
			})
			if err != nil {
				uc.logger.Error("DecideBooking: failed to list approved bookings for equipment id=%s: %v", eq.ID, err)
				return fmt.Errorf("%w: DecideBooking - list approved bookings: %v", ErrStore, err)
			}

			if conflict := findApprovedOverlap(approved, booking); conflict != nil {
				uc.logger.Warn("DecideBooking: booking id=%s overlaps approved booking id=%s", booking.ID, conflict.ID)
				return fmt.Errorf("%w: %s to %s is already approved",
					ErrOverlapConflict,
					conflict.StartDate.Format(domain.DateFormat),
					conflict.EndDate.Format(domain.DateFormat),
				)
			}
		}

		// 3.5. Условная смена статуса
		updated, err := uc.bookingRepo.UpdateStatus(txCtx, booking.ID, domain.StatusPending, req.Decision.TargetStatus())
		if err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				uc.logger.Warn("DecideBooking: booking id=%s changed status concurrently", booking.ID)
				return ErrInvalidStateTransition
			}
			uc.logger.Error("DecideBooking: failed to update status of booking id=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: DecideBooking - update status: %v", ErrStore, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		if !isDomainError(err) {
			uc.logger.Error("DecideBooking: transaction failed: %v", err)
			err = fmt.Errorf("%w: DecideBooking - transaction: %v", ErrStore, err)
		}
		uc.observe(req.Decision, err)
		return nil, err
	}

	// 4. Уведомляем арендатора после фиксации транзакции
	uc.notifier.BookingDecided(ctx, equipment, result)

	uc.observe(req.Decision, nil)
	uc.logger.Info("DecideBooking: booking id=%s is now %s", result.ID, result.Status)

	return toResponse(result), nil
}

func (uc *UseCase) bookingLookupError(id string, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		uc.logger.Warn("DecideBooking: booking id=%s not found", id)
		return ErrBookingNotFound
	}
	uc.logger.Error("DecideBooking: failed to get booking id=%s: %v", id, err)
	return fmt.Errorf("%w: DecideBooking - get booking: %v", ErrStore, err)
}

func (uc *UseCase) observe(decision Decision, err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.IncBookingDecision(string(decision), resultLabel(err))
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrInvalidInput,
		ErrBookingNotFound,
		ErrUnauthorized,
		ErrInvalidStateTransition,
		ErrOverlapConflict,
		ErrStore,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "applied"
	case errors.Is(err, ErrOverlapConflict):
		return "overlap"
	case errors.Is(err, ErrStore):
		return "store_error"
	default:
		return "rejected"
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
