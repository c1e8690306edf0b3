package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/dbmetrics"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/psqlbuilder"
)

const table = "equipment_bookings"

var columns = []string{
	"id",
	"equipment_id",
	"renter_id",
	"start_date",
	"end_date",
	"total_amount",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями техники
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"equipment_id",
			"renter_id",
			"start_date",
			"end_date",
			"total_amount",
			"status",
		).
		Values(
			booking.EquipmentID,
			booking.RenterID,
			booking.StartDate,
			booking.EndDate,
			booking.TotalAmount,
			string(booking.Status),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// List получает бронирования по фильтру, отсортированные по дате начала
//
// Примеры использования:
//
// 1. Занятые даты техники (pending + approved):
//    filter := domain.BookingsFilter{EquipmentID: &id, Statuses: domain.BlockingStatuses}
//
// 2. Другие подтвержденные бронирования при одобрении:
//    filter := domain.BookingsFilter{EquipmentID: &id, Statuses: []domain.BookingStatus{domain.StatusApproved}, ExcludeID: &bookingID}
//
// 3. История арендатора:
//    filter := domain.BookingsFilter{RenterID: &userID}
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).From(table)

	if filter.EquipmentID != nil {
		builder = builder.Where(squirrel.Eq{"equipment_id": *filter.EquipmentID})
	}
	if filter.RenterID != nil {
		builder = builder.Where(squirrel.Eq{"renter_id": *filter.RenterID})
	}
	if len(filter.Statuses) > 0 {
		builder = builder.Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})
	}
	if filter.ExcludeID != nil {
		builder = builder.Where(squirrel.NotEq{"id": *filter.ExcludeID})
	}

	builder = builder.OrderBy("start_date ASC", "created_at ASC")

	// Блокировка имеет смысл только внутри транзакции
	if filter.ForUpdate && dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// UpdateStatus переводит бронирование из статуса from в статус to.
// Обновление условное (WHERE status = from): если статус уже изменился,
// возвращается ErrStatusConflict и строка не меняется.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	return booking, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в бронирование
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		status               string
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.EquipmentID,
		&booking.RenterID,
		&booking.StartDate,
		&booking.EndDate,
		&booking.TotalAmount,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatus(status)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func joinColumns() string {
	return strings.Join(columns, ", ")
}
