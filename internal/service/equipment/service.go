package equipment

import (
	"context"
	"errors"
	"fmt"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	equipmentRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/equipment"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/equipment/models"
)

// Service сервис для работы с карточкой техники
type Service struct {
	equipmentRepo EquipmentRepository
	txManager     TransactionManager
	logger        Logger
}

// NewService создает новый экземпляр сервиса техники
func NewService(equipmentRepo EquipmentRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		equipmentRepo: equipmentRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// Get получает технику по ID
func (s *Service) Get(ctx context.Context, id string) (*models.EquipmentResponse, error) {
	s.logger.Info("Get: fetching equipment id=%s", id)

	eq, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("Get", id, err)
	}

	return models.FromDomainEquipment(eq), nil
}

// UpdateAvailability обновляет окно доступности и цену
// Доступно только владельцу техники
func (s *Service) UpdateAvailability(ctx context.Context, req *models.UpdateAvailabilityRequest) (*models.EquipmentResponse, error) {
	s.logger.Info("UpdateAvailability: equipment=%s by user=%s", req.EquipmentID, req.UserID)

	// 1. Валидируем входные данные
	if err := validateUpdate(req); err != nil {
		s.logger.Warn("UpdateAvailability: validation failed: %v", err)
		return nil, err
	}

	var updated *domain.Equipment

	// 2. Проверка владельца и обновление под блокировкой строки
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		eq, err := s.equipmentRepo.GetByIDForUpdate(txCtx, req.EquipmentID)
		if err != nil {
			return s.mapRepoError("UpdateAvailability", req.EquipmentID, err)
		}

		if !eq.IsOwnedBy(req.UserID) {
			s.logger.Warn("UpdateAvailability: user=%s is not the owner of equipment=%s", req.UserID, req.EquipmentID)
			return ErrAccessDenied
		}

		updated, err = s.equipmentRepo.UpdateAvailability(txCtx, req.EquipmentID,
			req.AvailabilityStart, req.AvailabilityEnd, req.RentalPrice, domain.PriceType(req.PriceType))
		if err != nil {
			return s.mapRepoError("UpdateAvailability", req.EquipmentID, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEquipmentNotFound) || errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("UpdateAvailability: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: UpdateAvailability - transaction: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateAvailability: equipment id=%s updated", req.EquipmentID)
	return models.FromDomainEquipment(updated), nil
}

func validateUpdate(req *models.UpdateAvailabilityRequest) error {
	if req.AvailabilityStart != nil && req.AvailabilityEnd != nil && req.AvailabilityStart.After(*req.AvailabilityEnd) {
		return fmt.Errorf("%w: availabilityStart must not be after availabilityEnd", ErrInvalidInput)
	}
	if req.RentalPrice <= 0 {
		return fmt.Errorf("%w: rentalPrice must be positive", ErrInvalidInput)
	}
	if !domain.PriceType(req.PriceType).IsValid() {
		return fmt.Errorf("%w: priceType must be per_hour or per_day", ErrInvalidInput)
	}
	return nil
}

func (s *Service) mapRepoError(op, id string, err error) error {
	if errors.Is(err, equipmentRepo.ErrEquipmentNotFound) {
		s.logger.Warn("%s: equipment id=%s not found", op, id)
		return ErrEquipmentNotFound
	}
	s.logger.Error("%s: repository error for equipment id=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
