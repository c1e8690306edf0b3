package chat_session

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/middleware"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/chat"
)

const (
	msgMissingUserID      = "user is not authenticated"
	msgMissingCounterpart = "query parameter 'with' is required and must differ from the current user"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin проверяет API gateway
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	newThread ThreadFactory
	logger    Logger
}

func NewHandler(newThread ThreadFactory, logger Logger) *Handler {
	return &Handler{
		newThread: newThread,
		logger:    logger,
	}
}

// Handle GET /api/v1/equipment/{equipmentId}/chat?with={userId}
// Апгрейдит соединение до websocket и ведет ленту двух участников.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	equipmentID := mux.Vars(r)["equipmentId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	counterpart := r.URL.Query().Get("with")
	if counterpart == "" || counterpart == userID {
		handlers.RespondBadRequest(w, msgMissingCounterpart)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrader уже записал ответ с ошибкой
		h.logger.Warn("GET /equipment/{id}/chat - Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	scope := chat.Scope{EquipmentID: equipmentID, SelfID: userID, CounterpartID: counterpart}
	s := &session{
		conn:   conn,
		thread: h.newThread(scope),
		scope:  scope,
		logger: h.logger,
	}

	h.logger.Info("GET /equipment/{id}/chat - Session opened: equipment_id=%s, user_id=%s, with=%s",
		equipmentID, userID, counterpart)

	if err := s.run(ctx); err != nil {
		h.logger.Warn("GET /equipment/{id}/chat - Session ended with error: equipment_id=%s, user_id=%s: %v",
			equipmentID, userID, err)
		return
	}

	h.logger.Info("GET /equipment/{id}/chat - Session closed: equipment_id=%s, user_id=%s", equipmentID, userID)
}
