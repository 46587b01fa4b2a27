package cancel_booking

import (
	"context"
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error
}

// ScheduleRepository интерфейс репозитория сетки расписания
type ScheduleRepository interface {
	GetActiveByBookingID(ctx context.Context, bookingID int64) (*domain.BaySchedule, error)
	Update(ctx context.Context, slot *domain.BaySchedule) error
}

// ServiceSlotRepository интерфейс репозитория витринных слотов
type ServiceSlotRepository interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.ServiceSlot, error)
	Update(ctx context.Context, slot *domain.ServiceSlot) error
}

// QueueRepository интерфейс репозитория очередей
type QueueRepository interface {
	GetActiveByBooking(ctx context.Context, bookingID int64) ([]*domain.BayQueueEntry, error)
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

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
