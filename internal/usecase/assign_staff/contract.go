package assign_staff

import (
	"context"
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// AssignmentRepository интерфейс репозитория назначений
type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.BookingAssignment) (*domain.BookingAssignment, error)
	GetActiveByStaff(ctx context.Context, staffID int64) ([]*domain.BookingAssignment, error)
	CountActiveInWindow(ctx context.Context, staffIDs []int64, from, to time.Time) (map[int64]int, error)
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
