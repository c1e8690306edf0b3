package notification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/dbmetrics"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/psqlbuilder"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/ptr"
)

type DBExecutor = dbmetrics.DBExecutor

const table = "notifications"

// Repository репозиторий уведомлений пользователей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория уведомлений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает уведомление
func (r *Repository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("user_id", "type", "title", "body", "reference_id", "read").
		Values(n.UserID, string(n.Kind), n.Title, n.Body, n.ReferenceID, false).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&n.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	n.Read = false
	n.CreatedAt = createdAt.Time

	return n, nil
}

// ListByUser получает уведомления пользователя, новые первыми
func (r *Repository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit uint64) ([]*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("id", "user_id", "type", "title", "body", "reference_id", "read", "created_at").
		From(table).
		Where(squirrel.Eq{"user_id": userID})

	if unreadOnly {
		builder = builder.Where(squirrel.Eq{"read": false})
	}

	builder = builder.OrderBy("created_at DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		var (
			n           domain.Notification
			kind        string
			referenceID sql.NullString
			createdAt   sql.NullTime
		)
		if err := rows.Scan(&n.ID, &n.UserID, &kind, &n.Title, &n.Body, &referenceID, &n.Read, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListByUser - scan row: %v", ErrScanRow, err)
		}
		n.Kind = domain.NotificationKind(kind)
		if referenceID.Valid {
			n.ReferenceID = ptr.Ptr(referenceID.String)
		}
		n.CreatedAt = createdAt.Time
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByUser - rows error: %v", ErrScanRow, err)
	}

	return notifications, nil
}

// MarkRead отмечает уведомление прочитанным (только для владельца)
func (r *Repository) MarkRead(ctx context.Context, id, userID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("read", true).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkRead - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkRead - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkRead - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}
