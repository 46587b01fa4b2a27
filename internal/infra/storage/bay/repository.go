package bay

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	"github.com/m04kA/VSC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/VSC-SchedulingService/pkg/psqlbuilder"
)

var bayColumns = []string{
	"id",
	"branch_id",
	"name",
	"code",
	"state",
	"display_order",
	"created_at",
	"updated_at",
}

// Repository репозиторий реестра боксов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория боксов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create регистрирует новый бокс филиала
func (r *Repository) Create(ctx context.Context, bay *domain.ServiceBay) (*domain.ServiceBay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("service_bays").
		Columns("branch_id", "name", "code", "state", "display_order").
		Values(bay.BranchID, bay.Name, bay.Code, bay.State, bay.DisplayOrder).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&bay.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	bay.CreatedAt = createdAt.Time
	bay.UpdatedAt = updatedAt.Time
	return bay, nil
}

// GetByID получает бокс по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ServiceBay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bayColumns...).
		From("service_bays").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var bay domain.ServiceBay
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&bay.ID,
		&bay.BranchID,
		&bay.Name,
		&bay.Code,
		&bay.State,
		&bay.DisplayOrder,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan bay: %v", ErrScanRow, err)
	}

	bay.CreatedAt = createdAt.Time
	bay.UpdatedAt = updatedAt.Time
	return &bay, nil
}

// ListByBranch получает боксы филиала в порядке display_order
func (r *Repository) ListByBranch(ctx context.Context, branchID int64) ([]*domain.ServiceBay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bayColumns...).
		From("service_bays").
		Where(squirrel.Eq{"branch_id": branchID}).
		OrderBy("display_order ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBranch - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBranch - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bays := make([]*domain.ServiceBay, 0)
	for rows.Next() {
		var bay domain.ServiceBay
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&bay.ID,
			&bay.BranchID,
			&bay.Name,
			&bay.Code,
			&bay.State,
			&bay.DisplayOrder,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByBranch - scan row: %v", ErrScanRow, err)
		}

		bay.CreatedAt = createdAt.Time
		bay.UpdatedAt = updatedAt.Time
		bays = append(bays, &bay)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBranch - rows error: %v", ErrScanRow, err)
	}

	return bays, nil
}

// UpdateState обновляет состояние работоспособности бокса
func (r *Repository) UpdateState(ctx context.Context, id int64, state domain.BayState) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("service_bays").
		Set("state", state).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateState - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateState - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateState - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBayNotFound
	}

	return nil
}
