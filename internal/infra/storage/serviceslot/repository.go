package serviceslot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	"github.com/m04kA/VSC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/VSC-SchedulingService/pkg/psqlbuilder"
)

var slotColumns = []string{
	"id",
	"branch_id",
	"slot_date",
	"start_time",
	"end_time",
	"category",
	"status",
	"booking_id",
	"priority_order",
	"close_reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий слотов филиала (пул до привязки к боксу)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов филиала
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает слот филиала
func (r *Repository) Create(ctx context.Context, slot *domain.ServiceSlot) (*domain.ServiceSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("service_slots").
		Columns("branch_id", "slot_date", "start_time", "end_time", "category", "status", "priority_order").
		Values(slot.BranchID, slot.Date, slot.StartTime, slot.EndTime, slot.Category, slot.Status, slot.PriorityOrder).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&slot.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time
	return slot, nil
}

// GetByID получает слот филиала по ID
// Внутри транзакции блокирует строку через FOR UPDATE
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ServiceSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("service_slots").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// GetByBookingID получает слот филиала, привязанный к бронированию
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.ServiceSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("service_slots").
		Where(squirrel.Eq{"booking_id": bookingID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// ListCustomerBookable получает доступные для клиентов слоты филиала на дату
// Слоты категории maintenance исключаются на уровне запроса и никогда не
// попадают в клиентскую выдачу
func (r *Repository) ListCustomerBookable(ctx context.Context, branchID int64, date time.Time) ([]*domain.ServiceSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("service_slots").
		Where(squirrel.Eq{
			"branch_id": branchID,
			"slot_date": dateOnly(date),
			"status":    string(domain.ServiceSlotStatusAvailable),
		}).
		Where(squirrel.NotEq{"category": string(domain.SlotCategoryMaintenance)}).
		OrderBy("priority_order ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListCustomerBookable - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListCustomerBookable - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// Update записывает мутируемые поля слота филиала
func (r *Repository) Update(ctx context.Context, slot *domain.ServiceSlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("service_slots").
		Set("status", slot.Status).
		Set("booking_id", slot.BookingID).
		Set("close_reason", slot.CloseReason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slot.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.ServiceSlot, error) {
	var slot domain.ServiceSlot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.BranchID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Category,
		&slot.Status,
		&slot.BookingID,
		&slot.PriorityOrder,
		&slot.CloseReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time
	return &slot, nil
}

func scanSlots(rows *sql.Rows) ([]*domain.ServiceSlot, error) {
	slots := make([]*domain.ServiceSlot, 0)

	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
