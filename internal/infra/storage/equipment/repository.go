package equipment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/dbmetrics"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/psqlbuilder"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/ptr"
)

type DBExecutor = dbmetrics.DBExecutor

const table = "equipment"

var columns = []string{
	"id",
	"owner_id",
	"name",
	"equipment_type",
	"rental_price",
	"price_type",
	"location",
	"availability_start",
	"availability_end",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с объявлениями техники
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория техники
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает технику по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate получает технику по ID и блокирует строку до конца транзакции.
// Вне транзакции работает как GetByID.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Equipment, error) {
	return r.get(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) get(ctx context.Context, id string, lock bool) (*domain.Equipment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})
	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	eq, err := scanEquipment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEquipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan equipment: %v", ErrScanRow, err)
	}

	return eq, nil
}

// UpdateAvailability обновляет окно доступности и цену аренды
func (r *Repository) UpdateAvailability(
	ctx context.Context,
	id string,
	start, end *time.Time,
	price float64,
	priceType domain.PriceType,
) (*domain.Equipment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("availability_start", start).
		Set("availability_end", end).
		Set("rental_price", price).
		Set("price_type", string(priceType)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateAvailability - build update query: %v", ErrBuildQuery, err)
	}

	eq, err := scanEquipment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEquipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateAvailability - execute update: %v", ErrExecQuery, err)
	}

	return eq, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEquipment(row rowScanner) (*domain.Equipment, error) {
	var (
		eq                   domain.Equipment
		priceType, status    string
		location             sql.NullString
		availStart, availEnd sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&eq.ID,
		&eq.OwnerID,
		&eq.Name,
		&eq.EquipmentType,
		&eq.RentalPrice,
		&priceType,
		&location,
		&availStart,
		&availEnd,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	eq.PriceType = domain.PriceType(priceType)
	eq.Status = domain.EquipmentStatus(status)
	if location.Valid {
		eq.Location = ptr.Ptr(location.String)
	}
	if availStart.Valid {
		eq.AvailabilityStart = ptr.Ptr(availStart.Time)
	}
	if availEnd.Valid {
		eq.AvailabilityEnd = ptr.Ptr(availEnd.Time)
	}
	eq.CreatedAt = createdAt.Time
	eq.UpdatedAt = updatedAt.Time

	return &eq, nil
}
