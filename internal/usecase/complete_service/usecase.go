package complete_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bayschedule"
)

// UseCase use case завершения обслуживания с каскадным пересчетом расписания
type UseCase struct {
	bookingRepo    BookingRepository
	scheduleRepo   ScheduleRepository
	queueRepo      QueueRepository
	assignmentRepo AssignmentRepository
	txManager      TransactionManager
	cache          CacheInvalidator
	logger         Logger

	// earlyThresholdMinutes минимальный запас раннего завершения, при котором
	// голова очереди продвигается в освободившееся окно
	earlyThresholdMinutes int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	queueRepo QueueRepository,
	assignmentRepo AssignmentRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	earlyThresholdMinutes int,
	logger Logger,
) *UseCase {
	if earlyThresholdMinutes <= 0 {
		earlyThresholdMinutes = domain.DefaultEarlyCompletionThresholdMinutes
	}
	return &UseCase{
		bookingRepo:           bookingRepo,
		scheduleRepo:          scheduleRepo,
		queueRepo:             queueRepo,
		assignmentRepo:        assignmentRepo,
		txManager:             txManager,
		cache:                 cache,
		logger:                logger,
		earlyThresholdMinutes: earlyThresholdMinutes,
	}
}

// Execute завершает обслуживание: слот переходит в COMPLETED, бронирование в
// COMPLETED, активные назначения закрываются. При раннем завершении сверх
// порога голова очереди бокса продвигается в освободившееся окно; при
// опоздании следующий BOOKED слот помечается флагом AtRisk. Оценки очереди
// пересчитываются в обоих случаях.
//
// Повторный вызов с тем же фактическим временем завершения идемпотентен и
// возвращает прежний результат без повторного продвижения очереди
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CompleteService: booking=%d, actualEnd=%s",
		req.BookingID, req.ActualEndAt.Format(time.RFC3339))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CompleteService: validation failed: %v", err)
		return nil, err
	}

	// TIMESTAMPTZ хранит микросекунды; время нормализуется до них, чтобы
	// повторный запрос совпадал со значением, прочитанным из базы
	req.ActualEndAt = req.ActualEndAt.Truncate(time.Microsecond)

	var resp *Response
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

		if booking.Status == domain.BookingStatusCompleted {
			resp, err = uc.replayCompleted(txCtx, booking, req.ActualEndAt)
			return err
		}

		if !booking.Status.CanTransitionTo(domain.BookingStatusCompleted) {
			uc.logger.Warn("CompleteService: booking id=%d status=%s does not permit completion",
				booking.ID, booking.Status)
			return fmt.Errorf("%w: booking status=%s", ErrInvalidState, booking.Status)
		}

		slot, err := uc.scheduleRepo.GetActiveByBookingID(txCtx, booking.ID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to get active slot: %v", ErrInternal, err)
		}

		earlyMinutes, err := slot.Complete(req.ActualEndAt)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
		lateMinutes := slot.LateMinutes(req.ActualEndAt)

		if err := uc.scheduleRepo.Update(txCtx, slot); err != nil {
			return fmt.Errorf("%w: failed to update slot: %v", ErrInternal, err)
		}
		touchedBayID, touchedDate = slot.BayID, slot.Date

		if err := uc.closeAssignments(txCtx, booking.ID); err != nil {
			return err
		}

		if err := booking.TransitionTo(domain.BookingStatusCompleted); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
		if err := uc.bookingRepo.UpdateStatus(txCtx, booking.ID, booking.Status); err != nil {
			return fmt.Errorf("%w: failed to update booking status: %v", ErrInternal, err)
		}
		if err := uc.bookingRepo.SetActualEnd(txCtx, booking.ID, req.ActualEndAt); err != nil {
			return fmt.Errorf("%w: failed to set actual end: %v", ErrInternal, err)
		}

		promoted, atRiskSlotID, err := uc.runCascade(txCtx, slot, earlyMinutes, lateMinutes, req.ActualEndAt)
		if err != nil {
			return err
		}

		resp = &Response{
			BookingID:      booking.ID,
			EarlyMinutes:   earlyMinutes,
			LateMinutes:    lateMinutes,
			Promoted:       promoted,
			NextSlotAtRisk: atRiskSlotID,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Повторное завершение ничего не меняет, снапшоты остаются валидными
	if touchedBayID != 0 {
		uc.cache.InvalidateBay(touchedBayID, touchedDate)
	}

	uc.logger.Info("CompleteService: booking=%d completed, early=%dmin, late=%dmin, promoted=%v",
		resp.BookingID, resp.EarlyMinutes, resp.LateMinutes, resp.Promoted != nil)

	return resp, nil
}

// replayCompleted обрабатывает повторное завершение уже завершенного
// бронирования: при совпадении фактического времени возвращает прежний
// результат, иначе это конфликт состояния
func (uc *UseCase) replayCompleted(ctx context.Context, booking *domain.Booking, actualEnd time.Time) (*Response, error) {
	slot, err := uc.scheduleRepo.GetCompletedByBookingID(ctx, booking.ID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrSlotNotFound) {
			return nil, fmt.Errorf("%w: booking already completed", ErrInvalidState)
		}
		return nil, fmt.Errorf("%w: failed to get completed slot: %v", ErrInternal, err)
	}
	if slot.ActualEndAt == nil || !slot.ActualEndAt.Truncate(time.Microsecond).Equal(actualEnd) {
		return nil, fmt.Errorf("%w: booking already completed with different actual end", ErrInvalidState)
	}

	uc.logger.Info("CompleteService: booking=%d already completed, replaying result", booking.ID)

	return &Response{
		BookingID:    booking.ID,
		EarlyMinutes: slot.EarlyCompletionMinutes(*slot.ActualEndAt),
		LateMinutes:  slot.LateMinutes(*slot.ActualEndAt),
	}, nil
}

// closeAssignments закрывает активные назначения бронирования: начатые
// завершаются, еще не начатые отменяются
func (uc *UseCase) closeAssignments(ctx context.Context, bookingID int64) error {
	assignments, err := uc.assignmentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("%w: failed to get assignments: %v", ErrInternal, err)
	}

	for _, a := range assignments {
		if !a.Status.IsActive() {
			continue
		}
		next := domain.AssignmentStatusCompleted
		if a.Status == domain.AssignmentStatusAssigned {
			next = domain.AssignmentStatusCancelled
		}
		if err := uc.assignmentRepo.UpdateStatus(ctx, a.ID, next); err != nil {
			return fmt.Errorf("%w: failed to close assignment id=%d: %v", ErrInternal, a.ID, err)
		}
	}
	return nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.ActualEndAt.IsZero() {
		return fmt.Errorf("%w: actualEndAt is required", ErrInvalidInput)
	}
	return nil
}
