package chat_session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/chat"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxFrame   = 16 << 10
)

// session одно websocket соединение, привязанное к ленте
type session struct {
	conn   *websocket.Conn
	thread Thread
	scope  chat.Scope
	logger Logger

	writeMu sync.Mutex
}

func (s *session) run(ctx context.Context) error {
	s.conn.SetReadLimit(maxFrame)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	handlers := chat.Handlers{
		OnInsert: func(msg domain.ChatMessage) {
			s.write(OutboundFrame{Type: FrameInsert, Entry: fromMessage(msg)})
		},
		OnUpdate: func(msg domain.ChatMessage) {
			s.write(OutboundFrame{Type: FrameUpdate, Entry: fromMessage(msg)})
		},
		OnDelete: func(id string) {
			s.write(OutboundFrame{Type: FrameDelete, ID: id})
		},
		OnReload: func(entries []chat.Entry) {
			s.write(OutboundFrame{Type: FrameSnapshot, Entries: fromEntries(entries)})
		},
	}

	// Подписка живет ровно столько, сколько цикл чтения
	return s.thread.Watch(ctx, handlers, func(ctx context.Context) error {
		go s.keepAlive(ctx)
		s.refresh(ctx)
		return s.readLoop(ctx)
	})
}

func (s *session) readLoop(ctx context.Context) error {
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		var frame InboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			s.write(OutboundFrame{Type: FrameError, Message: "malformed frame"})
			continue
		}

		switch frame.Type {
		case FrameSend:
			s.send(ctx, frame.Body)
		case FrameRetry:
			s.retry(ctx, frame.LocalID)
		case FrameRefresh:
			s.refresh(ctx)
		default:
			s.write(OutboundFrame{Type: FrameError, Message: "unknown frame type"})
		}
	}
}

func (s *session) refresh(ctx context.Context) {
	entries, err := s.thread.Load(ctx)
	if err != nil {
		s.logger.Warn("Chat session: load failed for equipment=%s: %v", s.scope.EquipmentID, err)
		s.write(OutboundFrame{Type: FrameError, Message: "could not load messages"})
		return
	}
	s.write(OutboundFrame{Type: FrameSnapshot, Entries: fromEntries(entries)})
}

func (s *session) send(ctx context.Context, body string) {
	delivery := s.thread.Send(ctx, body)
	if delivery == nil {
		// Пустое сообщение молча игнорируется
		return
	}

	s.write(OutboundFrame{Type: FrameDraft, LocalID: delivery.LocalID})
	go s.await(ctx, delivery)
}

func (s *session) retry(ctx context.Context, localID string) {
	delivery, err := s.thread.Retry(ctx, localID)
	if err != nil {
		msg := "message cannot be retried"
		if errors.Is(err, chat.ErrDraftNotFound) {
			msg = "message not found"
		}
		s.write(OutboundFrame{Type: FrameError, LocalID: localID, Message: msg})
		return
	}
	go s.await(ctx, delivery)
}

func (s *session) await(ctx context.Context, delivery *chat.Delivery) {
	select {
	case <-delivery.Done():
	case <-ctx.Done():
		return
	}

	if err := delivery.Wait(); err != nil {
		s.write(OutboundFrame{Type: FrameFailed, LocalID: delivery.LocalID, Message: "message was not delivered"})
		return
	}
	s.write(OutboundFrame{Type: FrameDelivered, LocalID: delivery.LocalID, MessageID: delivery.MessageID()})
}

func (s *session) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.writeMu.Lock()
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (s *session) write(frame OutboundFrame) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(frame); err != nil {
		s.logger.Warn("Chat session: write %s failed: %v", frame.Type, err)
	}
}
