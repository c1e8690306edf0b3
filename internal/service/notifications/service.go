package notifications

import (
	"context"
	"errors"
	"fmt"

	notificationRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/notification"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/notifications/models"
)

// Service входящие уведомления пользователя
type Service struct {
	repo   NotificationRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(repo NotificationRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List возвращает уведомления пользователя, новые первыми
func (s *Service) List(ctx context.Context, req *models.ListNotificationsRequest) (*models.NotificationListResponse, error) {
	if req.RequesterID != req.UserID {
		s.logger.Warn("List: user=%s requested notifications of user=%s", req.RequesterID, req.UserID)
		return nil, ErrAccessDenied
	}

	limit := req.Limit
	if limit == 0 {
		limit = models.DefaultLimit
	}

	items, err := s.repo.ListByUser(ctx, req.UserID, req.UnreadOnly, limit)
	if err != nil {
		s.logger.Error("List: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrStore, err)
	}

	return models.FromDomainNotificationList(items), nil
}

// MarkRead отмечает уведомление прочитанным
func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			s.logger.Warn("MarkRead: notification id=%s not found for user=%s", id, userID)
			return ErrNotificationNotFound
		}
		s.logger.Error("MarkRead: repository error for id=%s: %v", id, err)
		return fmt.Errorf("%w: MarkRead - repository error: %v", ErrStore, err)
	}

	s.logger.Info("MarkRead: notification id=%s marked read by user=%s", id, userID)
	return nil
}
