package reserve_slot

import (
	"context"
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	"github.com/m04kA/VSC-SchedulingService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateSchedule(ctx context.Context, id int64, bayID *int64, scheduledStart, scheduledEnd *time.Time) error
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
}

// BayRepository интерфейс реестра боксов
type BayRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceBay, error)
}

// ScheduleRepository интерфейс репозитория сетки расписания
type ScheduleRepository interface {
	GetByBayAndDate(ctx context.Context, bayID int64, date time.Time, statuses []domain.SlotStatus) ([]*domain.BaySchedule, error)
	GetActiveByBookingID(ctx context.Context, bookingID int64) (*domain.BaySchedule, error)
	FindAvailableByWindow(ctx context.Context, bayID int64, date time.Time, start, end types.TimeString) (*domain.BaySchedule, error)
	Create(ctx context.Context, slot *domain.BaySchedule) (*domain.BaySchedule, error)
	Update(ctx context.Context, slot *domain.BaySchedule) error
}

// ServiceSlotRepository интерфейс репозитория слотов филиала
type ServiceSlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceSlot, error)
	Update(ctx context.Context, slot *domain.ServiceSlot) error
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
