package complete_service

import (
	"context"
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	"github.com/m04kA/VSC-SchedulingService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	UpdateSchedule(ctx context.Context, id int64, bayID *int64, scheduledStart, scheduledEnd *time.Time) error
	SetActualEnd(ctx context.Context, id int64, at time.Time) error
}

// ScheduleRepository интерфейс репозитория сетки расписания
type ScheduleRepository interface {
	GetActiveByBookingID(ctx context.Context, bookingID int64) (*domain.BaySchedule, error)
	GetCompletedByBookingID(ctx context.Context, bookingID int64) (*domain.BaySchedule, error)
	GetByBayAndDate(ctx context.Context, bayID int64, date time.Time, statuses []domain.SlotStatus) ([]*domain.BaySchedule, error)
	GetNextScheduled(ctx context.Context, bayID int64, date time.Time, afterTime types.TimeString) (*domain.BaySchedule, error)
	Create(ctx context.Context, slot *domain.BaySchedule) (*domain.BaySchedule, error)
	Update(ctx context.Context, slot *domain.BaySchedule) error
}

// QueueRepository интерфейс репозитория очередей
type QueueRepository interface {
	GetActiveByBayAndDate(ctx context.Context, bayID int64, date time.Time) ([]*domain.BayQueueEntry, error)
	Deactivate(ctx context.Context, id int64) error
	UpdatePositionAndEstimates(ctx context.Context, entry *domain.BayQueueEntry) error
}

// AssignmentRepository интерфейс репозитория назначений
type AssignmentRepository interface {
	GetByBookingID(ctx context.Context, bookingID int64) ([]*domain.BookingAssignment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AssignmentStatus) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// CacheInvalidator сбрасывает кэшированные снапшоты сетки и очереди бокса
type CacheInvalidator interface {
	InvalidateBay(bayID int64, date time.Time)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
