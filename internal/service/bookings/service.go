package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	bookingRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/booking"
	equipmentRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/equipment"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo   BookingRepository
	equipmentRepo EquipmentRepository
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	equipmentRepo EquipmentRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		equipmentRepo: equipmentRepo,
		logger:        logger,
	}
}

// GetByID получает бронирование по ID
// Доступно арендатору и владельцу техники
func (s *Service) GetByID(ctx context.Context, id string, userID string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if booking.RenterID != userID {
		if err := s.checkOwnerAccess(ctx, booking.EquipmentID, userID); err != nil {
			s.logger.Warn("GetByID: access denied for user=%s to booking id=%s", userID, id)
			return nil, err
		}
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает бронирования арендатора
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%s, status=%v", req.UserID, req.Status)

	statuses, err := models.ToStatusFilter(req.Status)
	if err != nil {
		s.logger.Warn("GetUserBookings: invalid status=%s for user=%s", *req.Status, req.UserID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.List(ctx, domain.BookingsFilter{
		RenterID: &req.UserID,
		Statuses: statuses,
	})
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrStore, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%s", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetEquipmentBookings получает бронирования техники
// Доступно только владельцу техники
func (s *Service) GetEquipmentBookings(ctx context.Context, req *models.GetEquipmentBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetEquipmentBookings: fetching bookings for equipment=%s, user=%s, status=%v",
		req.EquipmentID, req.UserID, req.Status)

	if err := s.checkOwnerAccess(ctx, req.EquipmentID, req.UserID); err != nil {
		return nil, err
	}

	statuses, err := models.ToStatusFilter(req.Status)
	if err != nil {
		s.logger.Warn("GetEquipmentBookings: invalid status=%s", *req.Status)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.List(ctx, domain.BookingsFilter{
		EquipmentID: &req.EquipmentID,
		Statuses:    statuses,
	})
	if err != nil {
		s.logger.Error("GetEquipmentBookings: repository error for equipment=%s: %v", req.EquipmentID, err)
		return nil, fmt.Errorf("%w: GetEquipmentBookings - repository error: %v", ErrStore, err)
	}

	s.logger.Info("GetEquipmentBookings: successfully fetched %d bookings for equipment=%s", len(bookings), req.EquipmentID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Отменить можно только своё бронирование и только в статусе pending.
// Уведомление не отправляется.
func (s *Service) Cancel(ctx context.Context, bookingID string, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s by user=%s", bookingID, req.UserID)

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}

	// Проверяем, что пользователь - арендатор
	if booking.RenterID != req.UserID {
		s.logger.Warn("Cancel: user=%s is not the renter of booking id=%s", req.UserID, bookingID)
		return nil, ErrUnauthorized
	}

	if !booking.Status.CanTransitionTo(domain.StatusCancelled) {
		s.logger.Warn("Cancel: booking id=%s cannot be cancelled, status=%s", bookingID, booking.Status)
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidStateTransition, booking.Status)
	}

	// Условная смена статуса: если статус изменился параллельно, строка не обновится
	cancelled, err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.StatusPending, domain.StatusCancelled)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("Cancel: booking id=%s changed status concurrently", bookingID)
			return nil, ErrInvalidStateTransition
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrStore, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%s", bookingID)
	return models.FromDomainBooking(cancelled), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrStore, op, err)
	}
	return booking, nil
}

// checkOwnerAccess проверяет, что пользователь является владельцем техники
func (s *Service) checkOwnerAccess(ctx context.Context, equipmentID string, userID string) error {
	eq, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		if errors.Is(err, equipmentRepo.ErrEquipmentNotFound) {
			s.logger.Warn("checkOwnerAccess: equipment id=%s not found", equipmentID)
			return ErrEquipmentNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get equipment id=%s: %v", equipmentID, err)
		return fmt.Errorf("%w: checkOwnerAccess - failed to get equipment: %v", ErrStore, err)
	}

	if !eq.IsOwnedBy(userID) {
		s.logger.Warn("checkOwnerAccess: user=%s is not the owner of equipment=%s", userID, equipmentID)
		return ErrUnauthorized
	}

	return nil
}
