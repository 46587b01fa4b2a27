package generate_schedule

import (
	"context"
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
)

// BayRepository интерфейс реестра боксов
type BayRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceBay, error)
}

// ScheduleRepository интерфейс репозитория сетки расписания
type ScheduleRepository interface {
	ExistsForBayDate(ctx context.Context, bayID int64, date time.Time) (bool, error)
	CreateBatch(ctx context.Context, slots []*domain.BaySchedule) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
