package chat

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

const (
	deliverySend  = "send"
	deliveryRetry = "retry"
)

// Scope участники и техника, к которым привязана лента
type Scope struct {
	EquipmentID   string
	SelfID        string
	CounterpartID string
}

// Handlers обработчики удаленных изменений. Любое поле может быть nil.
type Handlers struct {
	OnInsert func(msg domain.ChatMessage)
	OnUpdate func(msg domain.ChatMessage)
	OnDelete func(id string)
	OnReload func(entries []Entry)
}

// Thread упорядоченная лента сообщений двух участников по одной технике.
// Лента отсортирована по created_at (стабильно), каждый реальный ID встречается не более одного раза.
type Thread struct {
	scope        Scope
	store        Store
	feed         ChangeFeed
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger

	mu      sync.Mutex
	entries []Entry
	seen    map[string]struct{}
}

// NewThread создает пустую ленту. metrics может быть nil.
func NewThread(scope Scope, store Store, feed ChangeFeed, metrics Metrics, logger Logger) *Thread {
	return &Thread{
		scope:        scope,
		store:        store,
		feed:         feed,
		timeProvider: &RealTimeProvider{},
		metrics:      metrics,
		logger:       logger,
		seen:         make(map[string]struct{}),
	}
}

// Entries возвращает копию текущей ленты
func (t *Thread) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Load заменяет подтвержденные сообщения снимком из хранилища.
// Локальные черновики сохраняются: они не существуют удаленно.
func (t *Thread) Load(ctx context.Context) ([]Entry, error) {
	messages, err := t.store.ListByEquipment(ctx, t.scope.EquipmentID, t.scope.SelfID)
	if err != nil {
		t.logger.Error("Chat: failed to load thread equipment=%s: %v", t.scope.EquipmentID, err)
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entries := make([]Entry, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, msg := range messages {
		if !t.belongs(msg) {
			continue
		}
		if _, ok := seen[msg.ID]; ok {
			continue
		}
		seen[msg.ID] = struct{}{}
		entries = append(entries, confirmed(msg))
	}
	for _, e := range t.entries {
		if e.IsDraft() {
			seen[e.Draft.LocalID] = struct{}{}
			entries = append(entries, e)
		}
	}

	t.entries = entries
	t.seen = seen
	t.sortLocked()

	t.logger.Info("Chat: loaded %d entries for equipment=%s", len(t.entries), t.scope.EquipmentID)
	return t.snapshotLocked(), nil
}

// Subscribe подписывает ленту на удаленные изменения.
// Подписку нужно освободить через Close; отмена ctx также освобождает ее.
func (t *Thread) Subscribe(ctx context.Context, handlers Handlers) (Subscription, error) {
	sub, err := t.feed.Subscribe(ctx, t.scope.EquipmentID, func(change domain.MessageChange) {
		t.apply(ctx, change, handlers)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubscribe, err)
	}
	return sub, nil
}

// Watch держит подписку на время выполнения fn и освобождает ее при любом выходе
func (t *Thread) Watch(ctx context.Context, handlers Handlers, fn func(ctx context.Context) error) error {
	sub, err := t.Subscribe(ctx, handlers)
	if err != nil {
		return err
	}
	defer func() {
		_ = sub.Close()
	}()

	return fn(ctx)
}

// Send оптимистично добавляет черновик и асинхронно сохраняет сообщение.
// Пустой после обрезки текст или неполный Scope игнорируются: возвращается nil.
func (t *Thread) Send(ctx context.Context, body string) *Delivery {
	body = strings.TrimSpace(body)
	if body == "" || t.scope.EquipmentID == "" || t.scope.SelfID == "" || t.scope.CounterpartID == "" {
		return nil
	}

	draft := &Draft{
		LocalID:     LocalIDPrefix + uuid.NewString(),
		EquipmentID: t.scope.EquipmentID,
		SenderID:    t.scope.SelfID,
		RecipientID: t.scope.CounterpartID,
		Body:        body,
		CreatedAt:   t.timeProvider.Now(),
		Status:      DraftPending,
	}

	t.mu.Lock()
	t.insertLocked(Entry{Draft: draft})
	t.seen[draft.LocalID] = struct{}{}
	t.mu.Unlock()

	delivery := newDelivery(draft.LocalID)
	go t.deliver(context.WithoutCancel(ctx), *draft, delivery, deliverySend)
	return delivery
}

// Retry повторно отправляет черновик в статусе failed
func (t *Thread) Retry(ctx context.Context, localID string) (*Delivery, error) {
	t.mu.Lock()
	idx := t.indexLocked(localID)
	if idx < 0 || !t.entries[idx].IsDraft() {
		t.mu.Unlock()
		return nil, ErrDraftNotFound
	}
	draft := t.entries[idx].Draft
	if draft.Status != DraftFailed {
		t.mu.Unlock()
		return nil, ErrDraftNotFailed
	}
	draft.Status = DraftPending
	snapshot := *draft
	t.mu.Unlock()

	delivery := newDelivery(localID)
	go t.deliver(context.WithoutCancel(ctx), snapshot, delivery, deliveryRetry)
	return delivery, nil
}

func (t *Thread) deliver(ctx context.Context, draft Draft, delivery *Delivery, kind string) {
	created, err := t.store.Create(ctx, &domain.ChatMessage{
		EquipmentID: draft.EquipmentID,
		SenderID:    draft.SenderID,
		RecipientID: draft.RecipientID,
		Body:        draft.Body,
	})

	if err != nil {
		t.mu.Lock()
		if idx := t.indexLocked(draft.LocalID); idx >= 0 && t.entries[idx].IsDraft() {
			t.entries[idx].Draft.Status = DraftFailed
		}
		t.mu.Unlock()

		t.logger.Warn("Chat: %s of %s failed: %v", kind, draft.LocalID, err)
		t.incDelivery(kind, "failed")
		delivery.finish("", fmt.Errorf("%w: %v", ErrSendFailed, err))
		return
	}

	result := t.confirm(draft.LocalID, created)
	t.incDelivery(kind, result)
	delivery.finish(created.ID, nil)
}

// confirm заменяет черновик подтвержденным сообщением.
// Если push уже доставил это сообщение, черновик просто удаляется.
func (t *Thread) confirm(localID string, created *domain.ChatMessage) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.seen, localID)
	idx := t.indexLocked(localID)

	if _, dup := t.seen[created.ID]; dup {
		if idx >= 0 {
			t.removeLocked(idx)
		}
		return "deduplicated"
	}

	t.seen[created.ID] = struct{}{}
	if idx >= 0 {
		t.entries[idx] = confirmed(created)
		t.sortLocked()
	} else {
		t.insertLocked(confirmed(created))
	}
	return "success"
}

func (t *Thread) apply(ctx context.Context, change domain.MessageChange, h Handlers) {
	switch change.Type {
	case domain.ChangeInsert:
		if change.Record == nil || !t.belongs(change.Record) {
			return
		}
		t.mu.Lock()
		if _, ok := t.seen[change.Record.ID]; ok {
			t.mu.Unlock()
			return
		}
		t.seen[change.Record.ID] = struct{}{}
		t.insertLocked(confirmed(change.Record))
		t.mu.Unlock()

		if h.OnInsert != nil {
			h.OnInsert(*change.Record)
		}

	case domain.ChangeUpdate:
		if change.Record == nil || !t.belongs(change.Record) {
			return
		}
		t.mu.Lock()
		idx := t.indexLocked(change.Record.ID)
		if idx < 0 || t.entries[idx].IsDraft() {
			t.mu.Unlock()
			return
		}
		t.entries[idx] = confirmed(change.Record)
		t.sortLocked()
		t.mu.Unlock()

		if h.OnUpdate != nil {
			h.OnUpdate(*change.Record)
		}

	case domain.ChangeDelete:
		t.mu.Lock()
		// ID покидает seen-set даже без записи в ленте
		delete(t.seen, change.OldID)
		idx := t.indexLocked(change.OldID)
		if idx < 0 || t.entries[idx].IsDraft() {
			t.mu.Unlock()
			return
		}
		t.removeLocked(idx)
		t.mu.Unlock()

		if h.OnDelete != nil {
			h.OnDelete(change.OldID)
		}

	case domain.ChangeResync:
		entries, err := t.Load(ctx)
		if err != nil {
			t.logger.Warn("Chat: resync of equipment=%s failed: %v", t.scope.EquipmentID, err)
			return
		}
		if h.OnReload != nil {
			h.OnReload(entries)
		}
	}
}

func (t *Thread) belongs(msg *domain.ChatMessage) bool {
	return msg.EquipmentID == t.scope.EquipmentID &&
		msg.Involves(t.scope.SelfID) &&
		msg.Involves(t.scope.CounterpartID)
}

// insertLocked вставляет запись после всех записей с тем же или меньшим created_at
func (t *Thread) insertLocked(e Entry) {
	at := e.CreatedAt()
	pos := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].CreatedAt().After(at)
	})
	t.entries = append(t.entries, Entry{})
	copy(t.entries[pos+1:], t.entries[pos:])
	t.entries[pos] = e
}

func (t *Thread) removeLocked(idx int) {
	t.entries = append(t.entries[:idx], t.entries[idx+1:]...)
}

func (t *Thread) sortLocked() {
	sort.SliceStable(t.entries, func(i, j int) bool {
		return t.entries[i].CreatedAt().Before(t.entries[j].CreatedAt())
	})
}

func (t *Thread) indexLocked(id string) int {
	for i, e := range t.entries {
		if e.ID() == id {
			return i
		}
	}
	return -1
}

func (t *Thread) snapshotLocked() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.clone()
	}
	return out
}

func (t *Thread) incDelivery(kind, result string) {
	if t.metrics != nil {
		t.metrics.IncChatDelivery(kind, result)
	}
}
