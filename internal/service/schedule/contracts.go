package schedule

import (
	"context"
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
)

// ServiceSlotRepository интерфейс репозитория витринных слотов
type ServiceSlotRepository interface {
	ListCustomerBookable(ctx context.Context, branchID int64, date time.Time) ([]*domain.ServiceSlot, error)
}

// ScheduleRepository интерфейс репозитория сетки расписания
type ScheduleRepository interface {
	GetByBayAndDate(ctx context.Context, bayID int64, date time.Time, statuses []domain.SlotStatus) ([]*domain.BaySchedule, error)
}

// QueueRepository интерфейс репозитория очередей
type QueueRepository interface {
	PeekActive(ctx context.Context, bayID int64, date time.Time, n int) ([]*domain.BayQueueEntry, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
