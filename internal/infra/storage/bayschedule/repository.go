package bayschedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	"github.com/m04kA/VSC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/VSC-SchedulingService/pkg/psqlbuilder"
	"github.com/m04kA/VSC-SchedulingService/pkg/types"
)

var slotColumns = []string{
	"id",
	"bay_id",
	"slot_date",
	"start_time",
	"end_time",
	"status",
	"booking_id",
	"actual_start_at",
	"actual_end_at",
	"at_risk",
	"cancellation_reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий сетки расписания боксов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBatch создает набор слотов одним запросом
// Используется генерацией расписания на день
func (r *Repository) CreateBatch(ctx context.Context, slots []*domain.BaySchedule) error {
	if len(slots) == 0 {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("bay_schedules").
		Columns("bay_id", "slot_date", "start_time", "end_time", "status")

	for _, slot := range slots {
		insertBuilder = insertBuilder.Values(slot.BayID, slot.Date, slot.StartTime, slot.EndTime, slot.Status)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateBatch - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// Create создает один слот (ad-hoc окно для walk-in бронирования)
func (r *Repository) Create(ctx context.Context, slot *domain.BaySchedule) (*domain.BaySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bay_schedules").
		Columns("bay_id", "slot_date", "start_time", "end_time", "status", "booking_id").
		Values(slot.BayID, slot.Date, slot.StartTime, slot.EndTime, slot.Status, slot.BookingID).
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

// GetByID получает слот по ID
// Внутри транзакции блокирует строку через FOR UPDATE
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.BaySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("bay_schedules").
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

// GetByBayAndDate получает слоты бокса на дату, опционально только в заданных статусах
// Внутри транзакции блокирует строки через FOR UPDATE: это сериализует
// конкурирующие операции над одним (bay, date)
func (r *Repository) GetByBayAndDate(ctx context.Context, bayID int64, date time.Time, statuses []domain.SlotStatus) ([]*domain.BaySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("bay_schedules").
		Where(squirrel.Eq{"bay_id": bayID}).
		Where(squirrel.Eq{"slot_date": dateOnly(date)})

	if len(statuses) > 0 {
		statusStrings := make([]string, len(statuses))
		for i, s := range statuses {
			statusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings})
	}

	selectBuilder = selectBuilder.OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBayAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBayAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// GetActiveByBookingID получает незавершенный слот, привязанный к бронированию
// Возвращает ErrSlotNotFound, если такого слота нет
func (r *Repository) GetActiveByBookingID(ctx context.Context, bookingID int64) (*domain.BaySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	committed := make([]string, len(domain.CommittedSlotStatuses))
	for i, s := range domain.CommittedSlotStatuses {
		committed[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("bay_schedules").
		Where(squirrel.Eq{"booking_id": bookingID}).
		Where(squirrel.Eq{"status": committed})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByBookingID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// GetCompletedByBookingID получает завершенный слот бронирования
// Используется проверкой идемпотентности повторного завершения
func (r *Repository) GetCompletedByBookingID(ctx context.Context, bookingID int64) (*domain.BaySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("bay_schedules").
		Where(squirrel.Eq{"booking_id": bookingID}).
		Where(squirrel.Eq{"status": string(domain.SlotStatusCompleted)}).
		OrderBy("id DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCompletedByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCompletedByBookingID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// FindAvailableByWindow находит AVAILABLE слот с точно совпадающим окном
func (r *Repository) FindAvailableByWindow(ctx context.Context, bayID int64, date time.Time, start, end types.TimeString) (*domain.BaySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("bay_schedules").
		Where(squirrel.Eq{
			"bay_id":     bayID,
			"slot_date":  dateOnly(date),
			"start_time": start,
			"end_time":   end,
			"status":     string(domain.SlotStatusAvailable),
		})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindAvailableByWindow - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindAvailableByWindow - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// GetNextScheduled получает первый BOOKED слот бокса на дату, начинающийся
// не раньше afterTime; используется пометкой слота "под риском" при опоздании
func (r *Repository) GetNextScheduled(ctx context.Context, bayID int64, date time.Time, afterTime types.TimeString) (*domain.BaySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("bay_schedules").
		Where(squirrel.Eq{
			"bay_id":    bayID,
			"slot_date": dateOnly(date),
			"status":    string(domain.SlotStatusBooked),
		}).
		Where(squirrel.GtOrEq{"start_time": afterTime}).
		OrderBy("start_time ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetNextScheduled - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetNextScheduled - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// ExistsForBayDate проверяет, есть ли уже слоты на бокс/дату
func (r *Repository) ExistsForBayDate(ctx context.Context, bayID int64, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bay_schedules").
		Where(squirrel.Eq{"bay_id": bayID, "slot_date": dateOnly(date)}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsForBayDate - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsForBayDate - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// Update записывает мутируемые поля слота (статус, привязку, фактические времена)
func (r *Repository) Update(ctx context.Context, slot *domain.BaySchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bay_schedules").
		Set("status", slot.Status).
		Set("booking_id", slot.BookingID).
		Set("actual_start_at", slot.ActualStartAt).
		Set("actual_end_at", slot.ActualEndAt).
		Set("at_risk", slot.AtRisk).
		Set("cancellation_reason", slot.CancellationReason).
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

func scanSlot(row rowScanner) (*domain.BaySchedule, error) {
	var slot domain.BaySchedule
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.BayID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Status,
		&slot.BookingID,
		&slot.ActualStartAt,
		&slot.ActualEndAt,
		&slot.AtRisk,
		&slot.CancellationReason,
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

func scanSlots(rows *sql.Rows) ([]*domain.BaySchedule, error) {
	slots := make([]*domain.BaySchedule, 0)

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

// dateOnly обнуляет компонент времени даты
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
