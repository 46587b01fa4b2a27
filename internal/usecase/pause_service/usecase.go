package pause_service

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
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

// Request запрос на приостановку обслуживания
type Request struct {
	BookingID int64
}

// UseCase use case приостановки обслуживания (IN_PROGRESS -> PAUSED)
// Пауза затрагивает только бронирование: слот сетки остается IN_PROGRESS,
// бокс по-прежнему занят, назначения не трогаются. Возобновление выполняется
// повторным стартом обслуживания
type UseCase struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, txManager TransactionManager, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute приостанавливает обслуживание по бронированию
func (uc *UseCase) Execute(ctx context.Context, req *Request) error {
	uc.logger.Info("PauseService: booking=%d", req.BookingID)

	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if err := booking.TransitionTo(domain.BookingStatusPaused); err != nil {
			uc.logger.Warn("PauseService: booking id=%d invalid transition: %v", booking.ID, err)
			return fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
		if err := uc.bookingRepo.UpdateStatus(txCtx, booking.ID, booking.Status); err != nil {
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		return err
	}

	uc.logger.Info("PauseService: booking=%d paused", req.BookingID)
	return nil
}
