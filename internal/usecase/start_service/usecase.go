package start_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bayschedule"
)

// Request запрос на начало обслуживания
type Request struct {
	BookingID int64
}

// UseCase use case начала обслуживания (CHECKED_IN -> IN_PROGRESS)
// Сначала стартует слот в сетке расписания, затем назначения, затем статус
// бронирования: грид является источником истины по занятости бокса, и его отказ
// оставляет бронирование нетронутым
type UseCase struct {
	bookingRepo    BookingRepository
	scheduleRepo   ScheduleRepository
	assignmentRepo AssignmentRepository
	txManager      TransactionManager
	cache          CacheInvalidator
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	assignmentRepo AssignmentRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		scheduleRepo:   scheduleRepo,
		assignmentRepo: assignmentRepo,
		txManager:      txManager,
		cache:          cache,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute начинает обслуживание по бронированию
func (uc *UseCase) Execute(ctx context.Context, req *Request) error {
	uc.logger.Info("StartService: booking=%d", req.BookingID)

	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	var touchedBayID int64
	var touchedDate time.Time

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// Возобновление после паузы не трогает слот: он уже IN_PROGRESS
		if booking.Status == domain.BookingStatusPaused {
			if err := booking.TransitionTo(domain.BookingStatusInProgress); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidState, err)
			}
			if err := uc.bookingRepo.UpdateStatus(txCtx, booking.ID, booking.Status); err != nil {
				return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
			}
			return nil
		}

		// Проверяем переход ДО мутаций: отказ не должен оставить частичных изменений
		if !booking.Status.CanTransitionTo(domain.BookingStatusInProgress) {
			uc.logger.Warn("StartService: booking id=%d invalid transition from %s", booking.ID, booking.Status)
			return fmt.Errorf("%w: booking status=%s", ErrInvalidState, booking.Status)
		}

		now := uc.timeProvider.Now()

		// 1. Грид: слот BOOKED -> IN_PROGRESS с фактическим началом
		slot, err := uc.scheduleRepo.GetActiveByBookingID(txCtx, booking.ID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}
		if err := slot.Start(now); err != nil {
			uc.logger.Warn("StartService: slot id=%d invalid transition: %v", slot.ID, err)
			return fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
		if err := uc.scheduleRepo.Update(txCtx, slot); err != nil {
			return fmt.Errorf("%w: failed to update slot: %v", ErrInternal, err)
		}
		touchedBayID, touchedDate = slot.BayID, slot.Date

		// 2. Переводим назначения ASSIGNED -> IN_PROGRESS
		assignments, err := uc.assignmentRepo.GetByBookingID(txCtx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to get assignments: %v", ErrInternal, err)
		}
		for _, a := range assignments {
			if a.Status != domain.AssignmentStatusAssigned {
				continue
			}
			if err := a.Start(); err != nil {
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}
			if err := uc.assignmentRepo.UpdateStatus(txCtx, a.ID, a.Status); err != nil {
				return fmt.Errorf("%w: failed to update assignment: %v", ErrInternal, err)
			}
		}

		// 3. Грид успешен: двигаем бронирование
		if err := booking.TransitionTo(domain.BookingStatusInProgress); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
		if err := uc.bookingRepo.UpdateStatus(txCtx, booking.ID, booking.Status); err != nil {
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}
		if err := uc.bookingRepo.SetActualStart(txCtx, booking.ID, now); err != nil {
			return fmt.Errorf("%w: failed to set actual start: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		return err
	}

	// Возобновление после паузы сетку не трогает, сбрасывать нечего
	if touchedBayID != 0 {
		uc.cache.InvalidateBay(touchedBayID, touchedDate)
	}

	uc.logger.Info("StartService: booking=%d started", req.BookingID)
	return nil
}
