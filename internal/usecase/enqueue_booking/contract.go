package enqueue_booking

import (
	"context"
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// BayRepository интерфейс реестра боксов
type BayRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceBay, error)
}

// QueueRepository интерфейс репозитория очередей
type QueueRepository interface {
	Create(ctx context.Context, entry *domain.BayQueueEntry) (*domain.BayQueueEntry, error)
	GetActiveByBayAndDate(ctx context.Context, bayID int64, date time.Time) ([]*domain.BayQueueEntry, error)
	GetActiveByBayAndBooking(ctx context.Context, bayID, bookingID int64) (*domain.BayQueueEntry, error)
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
