// Package notify создает уведомления о смене статусов бронирования.
// Все ошибки логируются и не возвращаются вызывающему коду.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/integrations/eventbus"
)

// Sender best-effort отправитель уведомлений
type Sender struct {
	repo      NotificationRepository
	publisher EventPublisher
	profiles  ProfileClient
	logger    Logger
}

// NewSender создает отправитель уведомлений
func NewSender(repo NotificationRepository, publisher EventPublisher, profiles ProfileClient, logger Logger) *Sender {
	return &Sender{
		repo:      repo,
		publisher: publisher,
		profiles:  profiles,
		logger:    logger,
	}
}

// BookingRequested уведомляет владельца техники о новом запросе
func (s *Sender) BookingRequested(ctx context.Context, equipment *domain.Equipment, booking *domain.Booking) {
	renterName := s.profiles.GetDisplayName(ctx, booking.RenterID)

	s.send(ctx, &domain.Notification{
		UserID:      equipment.OwnerID,
		Kind:        domain.NotifBookingRequested,
		Title:       "New booking request",
		Body:        fmt.Sprintf("%s requested %s from %s to %s", renterName, equipment.Name, formatDate(booking.StartDate), formatDate(booking.EndDate)),
		ReferenceID: &booking.ID,
	})
}

// BookingDecided уведомляет арендатора о решении владельца
func (s *Sender) BookingDecided(ctx context.Context, equipment *domain.Equipment, booking *domain.Booking) {
	n := &domain.Notification{
		UserID:      booking.RenterID,
		ReferenceID: &booking.ID,
	}

	switch booking.Status {
	case domain.StatusApproved:
		n.Kind = domain.NotifBookingApproved
		n.Title = "Booking approved"
		n.Body = fmt.Sprintf("Your booking for %s from %s to %s was approved", equipment.Name, formatDate(booking.StartDate), formatDate(booking.EndDate))
	case domain.StatusRejected:
		n.Kind = domain.NotifBookingRejected
		n.Title = "Booking rejected"
		n.Body = fmt.Sprintf("Your booking for %s from %s to %s was rejected", equipment.Name, formatDate(booking.StartDate), formatDate(booking.EndDate))
	default:
		s.logger.Warn("Notify: no notification for booking id=%s in status %s", booking.ID, booking.Status)
		return
	}

	s.send(ctx, n)
}

func (s *Sender) send(ctx context.Context, n *domain.Notification) {
	created, err := s.repo.Create(ctx, n)
	if err != nil {
		s.logger.Error("Notify: failed to create %s notification for user=%s: %v", n.Kind, n.UserID, err)
		return
	}

	if err := s.publisher.Publish(ctx, eventbus.RoutingKey(created.Kind), eventbus.NewNotificationEvent(created)); err != nil {
		s.logger.Warn("Notify: failed to publish notification id=%s: %v", created.ID, err)
		return
	}

	s.logger.Info("Notify: %s notification id=%s sent to user=%s", created.Kind, created.ID, created.UserID)
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateFormat)
}
