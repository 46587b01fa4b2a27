package assignment

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

var assignmentColumns = []string{
	"id",
	"booking_id",
	"staff_id",
	"role",
	"assigned_from",
	"assigned_to",
	"resource_type",
	"resource_id",
	"resource_name",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий назначений персонала и оборудования
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория назначений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает назначение
func (r *Repository) Create(ctx context.Context, a *domain.BookingAssignment) (*domain.BookingAssignment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_assignments").
		Columns("booking_id", "staff_id", "role", "assigned_from", "assigned_to",
			"resource_type", "resource_id", "resource_name", "status").
		Values(a.BookingID, a.StaffID, a.Role, a.AssignedFrom, a.AssignedTo,
			a.ResourceType, a.ResourceID, a.ResourceName, a.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return a, nil
}

// GetByID получает назначение по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.BookingAssignment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(assignmentColumns...).
		From("booking_assignments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAssignment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAssignmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan assignment: %v", ErrScanRow, err)
	}

	return a, nil
}

// GetActiveByStaff получает назначения сотрудника в статусах ASSIGNED/IN_PROGRESS
// Внутри транзакции блокирует строки: конкурирующие назначения одного
// сотрудника сериализуются этим замком
func (r *Repository) GetActiveByStaff(ctx context.Context, staffID int64) ([]*domain.BookingAssignment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	active := make([]string, len(domain.ActiveAssignmentStatuses))
	for i, s := range domain.ActiveAssignmentStatuses {
		active[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(assignmentColumns...).
		From("booking_assignments").
		Where(squirrel.Eq{"staff_id": staffID, "status": active}).
		OrderBy("assigned_from ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByStaff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAssignments(rows)
}

// GetByBookingID получает все назначения бронирования
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) ([]*domain.BookingAssignment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(assignmentColumns...).
		From("booking_assignments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("assigned_from ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAssignments(rows)
}

// CountActiveInWindow подсчитывает активные назначения каждого из кандидатов,
// пересекающиеся с окном [from, to)
// Используется выбором наименее загруженного сотрудника
func (r *Repository) CountActiveInWindow(ctx context.Context, staffIDs []int64, from, to time.Time) (map[int64]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	counts := make(map[int64]int, len(staffIDs))
	for _, id := range staffIDs {
		counts[id] = 0
	}
	if len(staffIDs) == 0 {
		return counts, nil
	}

	active := make([]string, len(domain.ActiveAssignmentStatuses))
	for i, s := range domain.ActiveAssignmentStatuses {
		active[i] = string(s)
	}

	// Правило пересечения полуоткрытых интервалов: from < assigned_to AND to > assigned_from
	query, args, err := psqlbuilder.Select("staff_id", "COUNT(*)").
		From("booking_assignments").
		Where(squirrel.Eq{"staff_id": staffIDs, "status": active}).
		Where(squirrel.Lt{"assigned_from": to}).
		Where(squirrel.Gt{"assigned_to": from}).
		GroupBy("staff_id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveInWindow - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveInWindow - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var staffID int64
		var count int
		if err := rows.Scan(&staffID, &count); err != nil {
			return nil, fmt.Errorf("%w: CountActiveInWindow - scan row: %v", ErrScanRow, err)
		}
		counts[staffID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountActiveInWindow - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// UpdateStatus обновляет статус назначения
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AssignmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_assignments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAssignmentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAssignment(row rowScanner) (*domain.BookingAssignment, error) {
	var a domain.BookingAssignment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.BookingID,
		&a.StaffID,
		&a.Role,
		&a.AssignedFrom,
		&a.AssignedTo,
		&a.ResourceType,
		&a.ResourceID,
		&a.ResourceName,
		&a.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return &a, nil
}

func scanAssignments(rows *sql.Rows) ([]*domain.BookingAssignment, error) {
	assignments := make([]*domain.BookingAssignment, 0)

	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAssignments - scan row: %v", ErrScanRow, err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAssignments - rows error: %v", ErrScanRow, err)
	}

	return assignments, nil
}
