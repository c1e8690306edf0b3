package message

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/dbmetrics"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

const table = "equipment_messages"

// Repository репозиторий сообщений чата по технике
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сообщений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет сообщение; id и created_at назначает БД
func (r *Repository) Create(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("equipment_id", "sender_id", "recipient_id", "message").
		Values(msg.EquipmentID, msg.SenderID, msg.RecipientID, msg.Body).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created := *msg
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&created.ID, &created.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return &created, nil
}

// GetByID получает сообщение по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.ChatMessage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "equipment_id", "sender_id", "recipient_id", "message", "created_at").
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var m domain.ChatMessage
	err = executor.QueryRowContext(ctx, query, args...).
		Scan(&m.ID, &m.EquipmentID, &m.SenderID, &m.RecipientID, &m.Body, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan row: %v", ErrScanRow, err)
	}

	return &m, nil
}

// ListByEquipment получает сообщения по технике в порядке создания.
// Непустой participantID оставляет только сообщения, где пользователь отправитель или получатель.
func (r *Repository) ListByEquipment(ctx context.Context, equipmentID, participantID string) ([]*domain.ChatMessage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("id", "equipment_id", "sender_id", "recipient_id", "message", "created_at").
		From(table).
		Where(squirrel.Eq{"equipment_id": equipmentID})

	if participantID != "" {
		builder = builder.Where(squirrel.Or{
			squirrel.Eq{"sender_id": participantID},
			squirrel.Eq{"recipient_id": participantID},
		})
	}

	query, args, err := builder.OrderBy("created_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEquipment - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEquipment - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	messages := make([]*domain.ChatMessage, 0)
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.EquipmentID, &m.SenderID, &m.RecipientID, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByEquipment - scan row: %v", ErrScanRow, err)
		}
		messages = append(messages, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByEquipment - rows error: %v", ErrScanRow, err)
	}

	return messages, nil
}
