package realtime

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// DefaultQueueSize размер очереди событий одной подписки
const DefaultQueueSize = 64

// Hub раздает события изменений подписчикам, сгруппированным по ID техники.
// У каждой подписки своя очередь и горутина: медленный обработчик не задерживает
// источник и другие комнаты. Порядок событий для одного подписчика сохраняется.
type Hub struct {
	mu        sync.RWMutex
	rooms     map[string]map[*Subscription]struct{}
	closed    bool
	queueSize int
	metrics   Metrics
	logger    Logger
}

// NewHub создает пустой hub. metrics может быть nil.
func NewHub(metrics Metrics, logger Logger) *Hub {
	return &Hub{
		rooms:     make(map[string]map[*Subscription]struct{}),
		queueSize: DefaultQueueSize,
		metrics:   metrics,
		logger:    logger,
	}
}

// queued элемент очереди подписки: событие или метка Flush
type queued struct {
	change  domain.MessageChange
	flushed chan struct{}
}

// Subscription подписка на события одной техники.
// Close освобождает подписку; повторные вызовы безопасны.
type Subscription struct {
	hub         *Hub
	equipmentID string
	handler     Handler
	queue       chan queued
	overflow    atomic.Bool
	once        sync.Once
	done        chan struct{}
}

// Close отписывает обработчик от hub
func (s *Subscription) Close() error {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.done)
	})
	return nil
}

// Done закрывается после освобождения подписки
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// enqueue не блокируется. При переполнении очередь сбрасывается,
// а подписчик получает resync вместо потерянных событий.
func (s *Subscription) enqueue(change domain.MessageChange) {
	select {
	case s.queue <- queued{change: change}:
	default:
		if !s.overflow.Swap(true) {
			s.hub.logger.Warn("Realtime: queue of equipment=%s subscriber is full, scheduling resync", s.equipmentID)
			// очередь могла успеть опустеть: будим обработчик, чтобы resync не ждал следующего события
			select {
			case s.queue <- queued{change: domain.MessageChange{Type: domain.ChangeResync, EquipmentID: s.equipmentID}}:
			default:
			}
		}
	}
}

func (s *Subscription) run() {
	for {
		select {
		case <-s.done:
			return
		case item := <-s.queue:
			if item.flushed != nil {
				close(item.flushed)
				continue
			}
			change := item.change
			var markers []chan struct{}
			if s.overflow.CompareAndSwap(true, false) {
				markers = s.drain()
				change = domain.MessageChange{Type: domain.ChangeResync, EquipmentID: s.equipmentID}
			}
			s.handler(change)
			for _, m := range markers {
				close(m)
			}
		}
	}
}

// drain отбрасывает накопленные события и возвращает метки Flush
func (s *Subscription) drain() []chan struct{} {
	var markers []chan struct{}
	for {
		select {
		case item := <-s.queue:
			if item.flushed != nil {
				markers = append(markers, item.flushed)
			}
		default:
			return markers
		}
	}
}

// flush ждет обработки всех событий, поставленных в очередь до вызова
func (s *Subscription) flush() {
	marker := make(chan struct{})
	select {
	case s.queue <- queued{flushed: marker}:
	case <-s.done:
		return
	}
	select {
	case <-marker:
	case <-s.done:
	}
}

// Subscribe регистрирует обработчик событий по технике.
// Подписка освобождается при Close или при отмене ctx.
func (h *Hub) Subscribe(ctx context.Context, equipmentID string, handler Handler) (*Subscription, error) {
	if equipmentID == "" {
		return nil, ErrEmptyEquipmentID
	}

	sub := &Subscription{
		hub:         h,
		equipmentID: equipmentID,
		handler:     handler,
		queue:       make(chan queued, h.queueSize),
		done:        make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHubClosed
	}
	if _, ok := h.rooms[equipmentID]; !ok {
		h.rooms[equipmentID] = make(map[*Subscription]struct{})
	}
	h.rooms[equipmentID][sub] = struct{}{}
	count := len(h.rooms[equipmentID])
	h.mu.Unlock()

	h.addSubscriptions(1)
	h.logger.Info("Realtime: subscribed to equipment=%s (subscribers: %d)", equipmentID, count)

	go sub.run()

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				_ = sub.Close()
			case <-sub.done:
			}
		}()
	}

	return sub, nil
}

// Dispatch ставит событие в очереди подписчиков его техники
func (h *Hub) Dispatch(change domain.MessageChange) {
	h.mu.RLock()
	subs := make([]*Subscription, 0, len(h.rooms[change.EquipmentID]))
	for sub := range h.rooms[change.EquipmentID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	if h.metrics != nil {
		h.metrics.IncRealtimeEvent(string(change.Type))
	}

	for _, sub := range subs {
		sub.enqueue(change)
	}
}

// Resync сообщает всем подписчикам, что события могли быть потеряны
func (h *Hub) Resync() {
	subs := h.all()
	h.logger.Warn("Realtime: resync requested for %d subscribers", len(subs))

	for _, sub := range subs {
		sub.enqueue(domain.MessageChange{Type: domain.ChangeResync, EquipmentID: sub.equipmentID})
	}
}

// Flush блокируется, пока текущие подписчики не обработают уже поставленные события
func (h *Hub) Flush() {
	for _, sub := range h.all() {
		sub.flush()
	}
}

func (h *Hub) all() []*Subscription {
	h.mu.RLock()
	defer h.mu.RUnlock()
	subs := make([]*Subscription, 0)
	for _, room := range h.rooms {
		for sub := range room {
			subs = append(subs, sub)
		}
	}
	return subs
}

// Close освобождает все подписки и запрещает новые
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	subs := h.all()

	for _, sub := range subs {
		_ = sub.Close()
	}
	return nil
}

// SubscriberCount количество подписчиков по технике
func (h *Hub) SubscriberCount(equipmentID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[equipmentID])
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	removed := false
	if room, ok := h.rooms[sub.equipmentID]; ok {
		if _, exists := room[sub]; exists {
			delete(room, sub)
			removed = true
		}
		if len(room) == 0 {
			delete(h.rooms, sub.equipmentID)
		}
	}
	h.mu.Unlock()

	if removed {
		h.addSubscriptions(-1)
		h.logger.Info("Realtime: unsubscribed from equipment=%s", sub.equipmentID)
	}
}

func (h *Hub) addSubscriptions(delta float64) {
	if h.metrics != nil {
		h.metrics.AddRealtimeSubscriptions(delta)
	}
}
