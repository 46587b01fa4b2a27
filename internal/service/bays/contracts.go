package bays

import (
	"context"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
)

// BayRepository интерфейс реестра боксов
type BayRepository interface {
	Create(ctx context.Context, bay *domain.ServiceBay) (*domain.ServiceBay, error)
	GetByID(ctx context.Context, id int64) (*domain.ServiceBay, error)
	ListByBranch(ctx context.Context, branchID int64) ([]*domain.ServiceBay, error)
	UpdateState(ctx context.Context, id int64, state domain.BayState) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
