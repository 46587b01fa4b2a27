package bayqueue

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

var entryColumns = []string{
	"id",
	"bay_id",
	"booking_id",
	"position",
	"queue_date",
	"estimated_start_at",
	"estimated_end_at",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий очередей ожидания боксов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория очередей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет запись в очередь
func (r *Repository) Create(ctx context.Context, entry *domain.BayQueueEntry) (*domain.BayQueueEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bay_queue_entries").
		Columns("bay_id", "booking_id", "position", "queue_date", "estimated_start_at", "estimated_end_at", "is_active").
		Values(entry.BayID, entry.BookingID, entry.Position, entry.QueueDate, entry.EstimatedStartAt, entry.EstimatedEndAt, entry.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time
	return entry, nil
}

// GetActiveByBayAndDate получает активные записи очереди (bay, date) по порядку позиций
// Внутри транзакции блокирует строки через FOR UPDATE: dequeue/enqueue на одной
// очереди сериализуются этим замком
func (r *Repository) GetActiveByBayAndDate(ctx context.Context, bayID int64, date time.Time) ([]*domain.BayQueueEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("bay_queue_entries").
		Where(squirrel.Eq{
			"bay_id":     bayID,
			"queue_date": dateOnly(date),
			"is_active":  true,
		}).
		OrderBy("position ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByBayAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByBayAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// PeekActive получает первые n активных записей очереди без блокировки
// Используется display-only чтением
func (r *Repository) PeekActive(ctx context.Context, bayID int64, date time.Time, n int) ([]*domain.BayQueueEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(entryColumns...).
		From("bay_queue_entries").
		Where(squirrel.Eq{
			"bay_id":     bayID,
			"queue_date": dateOnly(date),
			"is_active":  true,
		}).
		OrderBy("position ASC").
		Limit(uint64(n)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: PeekActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: PeekActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetActiveByBayAndBooking получает активную запись бронирования в очереди бокса
// Возвращает ErrEntryNotFound, если записи нет
func (r *Repository) GetActiveByBayAndBooking(ctx context.Context, bayID, bookingID int64) (*domain.BayQueueEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("bay_queue_entries").
		Where(squirrel.Eq{
			"bay_id":     bayID,
			"booking_id": bookingID,
			"is_active":  true,
		})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByBayAndBooking - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := scanEntry(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByBayAndBooking - scan entry: %v", ErrScanRow, err)
	}

	return entry, nil
}

// GetActiveByBooking получает все активные записи бронирования во всех очередях
// Используется очисткой при отмене бронирования
func (r *Repository) GetActiveByBooking(ctx context.Context, bookingID int64) ([]*domain.BayQueueEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("bay_queue_entries").
		Where(squirrel.Eq{"booking_id": bookingID, "is_active": true})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByBooking - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Deactivate снимает запись с очереди (is_active = false)
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bay_queue_entries").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// UpdatePositionAndEstimates записывает позицию и оценки времени одной записи
// Вызывается для каждой сдвинутой записи внутри транзакции dequeue/reposition
func (r *Repository) UpdatePositionAndEstimates(ctx context.Context, entry *domain.BayQueueEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bay_queue_entries").
		Set("position", entry.Position).
		Set("estimated_start_at", entry.EstimatedStartAt).
		Set("estimated_end_at", entry.EstimatedEndAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": entry.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdatePositionAndEstimates - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdatePositionAndEstimates - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdatePositionAndEstimates - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*domain.BayQueueEntry, error) {
	var entry domain.BayQueueEntry
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&entry.ID,
		&entry.BayID,
		&entry.BookingID,
		&entry.Position,
		&entry.QueueDate,
		&entry.EstimatedStartAt,
		&entry.EstimatedEndAt,
		&entry.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time
	return &entry, nil
}

func scanEntries(rows *sql.Rows) ([]*domain.BayQueueEntry, error) {
	entries := make([]*domain.BayQueueEntry, 0)

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanEntries - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanEntries - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
