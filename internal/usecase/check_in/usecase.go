package check_in

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

// Request запрос на отметку прибытия клиента
type Request struct {
	BookingID int64
}

// UseCase use case отметки прибытия клиента (CONFIRMED -> CHECKED_IN)
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

// Execute отмечает прибытие клиента
func (uc *UseCase) Execute(ctx context.Context, req *Request) error {
	uc.logger.Info("CheckIn: booking=%d", req.BookingID)

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

		if err := booking.TransitionTo(domain.BookingStatusCheckedIn); err != nil {
			uc.logger.Warn("CheckIn: booking id=%d invalid transition from %s", booking.ID, booking.Status)
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

	uc.logger.Info("CheckIn: booking=%d checked in", req.BookingID)
	return nil
}
