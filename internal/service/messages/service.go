package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	equipmentRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/equipment"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/messages/models"
)

// Service сервис сообщений чата. Реализует chat.Store.
type Service struct {
	messageRepo   MessageRepository
	equipmentRepo EquipmentRepository
	publisher     ChangePublisher
	logger        Logger
}

// NewService создает новый экземпляр сервиса сообщений
func NewService(
	messageRepo MessageRepository,
	equipmentRepo EquipmentRepository,
	publisher ChangePublisher,
	logger Logger,
) *Service {
	return &Service{
		messageRepo:   messageRepo,
		equipmentRepo: equipmentRepo,
		publisher:     publisher,
		logger:        logger,
	}
}

// List возвращает переписку пользователя по технике
func (s *Service) List(ctx context.Context, req *models.ListMessagesRequest) (*models.MessageListResponse, error) {
	s.logger.Info("List: equipment=%s user=%s with=%s", req.EquipmentID, req.UserID, req.With)

	if req.EquipmentID == "" || req.UserID == "" {
		return nil, fmt.Errorf("%w: equipment and user are required", ErrInvalidInput)
	}

	msgs, err := s.ListByEquipment(ctx, req.EquipmentID, req.UserID)
	if err != nil {
		return nil, err
	}

	// Собеседник задан - оставляем только переписку двух участников
	if req.With != "" {
		filtered := make([]*domain.ChatMessage, 0, len(msgs))
		for _, m := range msgs {
			if m.Involves(req.With) {
				filtered = append(filtered, m)
			}
		}
		msgs = filtered
	}

	return models.FromDomainMessageList(msgs), nil
}

// Post сохраняет сообщение от имени пользователя
func (s *Service) Post(ctx context.Context, req *models.PostMessageRequest) (*models.MessageResponse, error) {
	s.logger.Info("Post: equipment=%s from=%s to=%s", req.EquipmentID, req.UserID, req.RecipientID)

	// 1. Техника должна существовать
	if _, err := s.equipmentRepo.GetByID(ctx, req.EquipmentID); err != nil {
		if errors.Is(err, equipmentRepo.ErrEquipmentNotFound) {
			s.logger.Warn("Post: equipment=%s not found", req.EquipmentID)
			return nil, ErrEquipmentNotFound
		}
		s.logger.Error("Post: failed to get equipment=%s: %v", req.EquipmentID, err)
		return nil, fmt.Errorf("%w: Post - get equipment: %v", ErrStore, err)
	}

	// 2. Сохраняем и публикуем
	created, err := s.Create(ctx, &domain.ChatMessage{
		EquipmentID: req.EquipmentID,
		SenderID:    req.UserID,
		RecipientID: req.RecipientID,
		Body:        req.Message,
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomainMessage(created), nil
}

// ListByEquipment получает сообщения по технике, где участвует participantID
func (s *Service) ListByEquipment(ctx context.Context, equipmentID, participantID string) ([]*domain.ChatMessage, error) {
	msgs, err := s.messageRepo.ListByEquipment(ctx, equipmentID, participantID)
	if err != nil {
		s.logger.Error("ListByEquipment: repository error for equipment=%s: %v", equipmentID, err)
		return nil, fmt.Errorf("%w: ListByEquipment - repository error: %v", ErrStore, err)
	}
	return msgs, nil
}

// Create валидирует и сохраняет сообщение, затем публикует событие INSERT
func (s *Service) Create(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	body := strings.TrimSpace(msg.Body)
	switch {
	case msg.EquipmentID == "" || msg.SenderID == "" || msg.RecipientID == "":
		return nil, fmt.Errorf("%w: equipment, sender and recipient are required", ErrInvalidInput)
	case msg.SenderID == msg.RecipientID:
		return nil, fmt.Errorf("%w: sender and recipient must differ", ErrInvalidInput)
	case body == "":
		return nil, fmt.Errorf("%w: message is empty", ErrInvalidInput)
	case utf8.RuneCountInString(body) > domain.MaxMessageLength:
		return nil, fmt.Errorf("%w: limit is %d characters", ErrMessageTooLong, domain.MaxMessageLength)
	}

	toSave := *msg
	toSave.Body = body

	created, err := s.messageRepo.Create(ctx, &toSave)
	if err != nil {
		s.logger.Error("Create: failed to save message for equipment=%s: %v", msg.EquipmentID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrStore, err)
	}

	// Публикация не влияет на результат: сообщение уже сохранено
	change := domain.MessageChange{Type: domain.ChangeInsert, EquipmentID: created.EquipmentID, Record: created}
	if err := s.publisher.PublishChange(ctx, change); err != nil {
		s.logger.Warn("Create: failed to publish message id=%s: %v", created.ID, err)
	}

	s.logger.Info("Create: message id=%s saved", created.ID)
	return created, nil
}
