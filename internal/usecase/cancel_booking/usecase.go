package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	queueRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bayqueue"
	scheduleRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bayschedule"
	bookingRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/serviceslot"
)

// UseCase use case отмены бронирования с освобождением всех занятых ресурсов
type UseCase struct {
	bookingRepo     BookingRepository
	scheduleRepo    ScheduleRepository
	serviceSlotRepo ServiceSlotRepository
	queueRepo       QueueRepository
	assignmentRepo  AssignmentRepository
	txManager       TransactionManager
	cache           CacheInvalidator
	timeProvider    TimeProvider
	logger          Logger
}

// touchedBay пара (бокс, дата), чьи снапшоты устарели после отмены
type touchedBay struct {
	bayID int64
	date  time.Time
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	serviceSlotRepo ServiceSlotRepository,
	queueRepo QueueRepository,
	assignmentRepo AssignmentRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		scheduleRepo:    scheduleRepo,
		serviceSlotRepo: serviceSlotRepo,
		queueRepo:       queueRepo,
		assignmentRepo:  assignmentRepo,
		txManager:       txManager,
		cache:           cache,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute отменяет бронирование и освобождает все связанные ресурсы:
// BOOKED слот сетки возвращается в AVAILABLE, слот в работе закрывается
// текущим моментом, витринный слот освобождается, записи очереди
// деактивируются с перенумерацией, активные назначения отменяются.
// Повторная отмена уже отмененного бронирования идемпотентна
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, noShow=%v", req.BookingID, req.NoShow)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	target := domain.BookingStatusCancelled
	if req.NoShow {
		target = domain.BookingStatusNoShow
	}

	var resp *Response
	var touched []touchedBay

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		touched = touched[:0]

		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.Status == target {
			uc.logger.Info("CancelBooking: booking id=%d already in status=%s", booking.ID, target)
			resp = &Response{BookingID: booking.ID, Status: booking.Status}
			return nil
		}
		if !booking.Status.CanTransitionTo(target) {
			uc.logger.Warn("CancelBooking: booking id=%d status=%s does not permit %s",
				booking.ID, booking.Status, target)
			return fmt.Errorf("%w: status=%s", ErrInvalidState, booking.Status)
		}

		releasedSlotID, gridSlot, err := uc.releaseScheduleSlot(txCtx, booking.ID, req.Reason)
		if err != nil {
			return err
		}
		if gridSlot != nil {
			touched = append(touched, touchedBay{bayID: gridSlot.BayID, date: gridSlot.Date})
		}

		if err := uc.releaseServiceSlot(txCtx, booking.ID); err != nil {
			return err
		}

		removedEntries, err := uc.dequeueAll(txCtx, booking.ID)
		if err != nil {
			return err
		}
		for _, e := range removedEntries {
			touched = append(touched, touchedBay{bayID: e.BayID, date: e.QueueDate})
		}

		if err := uc.cancelAssignments(txCtx, booking.ID); err != nil {
			return err
		}

		if err := uc.bookingRepo.Cancel(txCtx, booking.ID, target, req.Reason); err != nil {
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		resp = &Response{
			BookingID:       booking.ID,
			Status:          target,
			ReleasedSlotID:  releasedSlotID,
			DequeuedEntries: len(removedEntries),
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	for _, tb := range touched {
		uc.cache.InvalidateBay(tb.bayID, tb.date)
	}

	uc.logger.Info("CancelBooking: booking=%d -> %s, dequeued=%d", resp.BookingID, resp.Status, resp.DequeuedEntries)

	return resp, nil
}

// releaseScheduleSlot освобождает активный слот сетки бронирования
// BOOKED слот возвращается в AVAILABLE и снова доступен для записи; слот в
// работе закрывается текущим моментом, так как бокс фактически занят до него.
// Вторым значением возвращается измененный слот сетки, если мутация была
func (uc *UseCase) releaseScheduleSlot(ctx context.Context, bookingID int64, reason string) (*int64, *domain.BaySchedule, error) {
	slot, err := uc.scheduleRepo.GetActiveByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrSlotNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("%w: failed to get active slot: %v", ErrInternal, err)
	}

	switch slot.Status {
	case domain.SlotStatusBooked:
		if err := slot.Release(); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		if err := uc.scheduleRepo.Update(ctx, slot); err != nil {
			return nil, nil, fmt.Errorf("%w: failed to release slot: %v", ErrInternal, err)
		}
		return &slot.ID, slot, nil
	case domain.SlotStatusInProgress:
		if _, err := slot.Complete(uc.timeProvider.Now()); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		slot.CancellationReason = &reason
		if err := uc.scheduleRepo.Update(ctx, slot); err != nil {
			return nil, nil, fmt.Errorf("%w: failed to close in-progress slot: %v", ErrInternal, err)
		}
		return nil, slot, nil
	default:
		return nil, nil, nil
	}
}

// releaseServiceSlot отвязывает бронирование от витринного слота
func (uc *UseCase) releaseServiceSlot(ctx context.Context, bookingID int64) error {
	slot, err := uc.serviceSlotRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil
		}
		return fmt.Errorf("%w: failed to get service slot: %v", ErrInternal, err)
	}

	if err := slot.UnassignBooking(); err != nil {
		uc.logger.Warn("CancelBooking: service slot id=%d not releasable: %v", slot.ID, err)
		return nil
	}
	if err := uc.serviceSlotRepo.Update(ctx, slot); err != nil {
		return fmt.Errorf("%w: failed to release service slot: %v", ErrInternal, err)
	}
	return nil
}

// dequeueAll деактивирует все активные записи бронирования в очередях и
// перенумеровывает оставшиеся записи каждой затронутой очереди, сохраняя
// непрерывность позиций. Оценки хвоста пересчитываются от оценки начала
// выбывшей записи
func (uc *UseCase) dequeueAll(ctx context.Context, bookingID int64) ([]*domain.BayQueueEntry, error) {
	entries, err := uc.queueRepo.GetActiveByBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, queueRepo.ErrEntryNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get queue entries: %v", ErrInternal, err)
	}

	for _, removed := range entries {
		queue, err := uc.queueRepo.GetActiveByBayAndDate(ctx, removed.BayID, removed.QueueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get queue for bay=%d: %v", ErrInternal, removed.BayID, err)
		}
		if err := domain.ValidateQueueContiguity(queue); err != nil {
			uc.logger.Error("CancelBooking: queue integrity violated for bay=%d: %v", removed.BayID, err)
			return nil, err
		}

		if err := uc.queueRepo.Deactivate(ctx, removed.ID); err != nil {
			return nil, fmt.Errorf("%w: failed to deactivate queue entry id=%d: %v", ErrInternal, removed.ID, err)
		}

		remaining := make([]*domain.BayQueueEntry, 0, len(queue))
		for _, e := range queue {
			if e.ID != removed.ID {
				remaining = append(remaining, e)
			}
		}
		shifted := domain.ShiftAfterRemoval(remaining, removed.Position)
		for _, e := range shifted {
			if err := uc.queueRepo.UpdatePositionAndEstimates(ctx, e); err != nil {
				return nil, fmt.Errorf("%w: failed to shift queue entry id=%d: %v", ErrInternal, e.ID, err)
			}
		}

		if len(shifted) > 0 {
			base := uc.timeProvider.Now()
			if removed.EstimatedStartAt != nil && removed.EstimatedStartAt.After(base) {
				base = *removed.EstimatedStartAt
			}
			durations := make(map[int64]int, len(remaining))
			for _, e := range remaining {
				if e.Position < removed.Position {
					continue
				}
				b, err := uc.bookingRepo.GetByID(ctx, e.BookingID)
				if err != nil {
					if errors.Is(err, bookingRepo.ErrBookingNotFound) {
						continue
					}
					return nil, fmt.Errorf("%w: failed to get queued booking id=%d: %v", ErrInternal, e.BookingID, err)
				}
				durations[e.BookingID] = b.EstimatedDurationMinutes
			}
			domain.PropagateQueueEstimates(remaining, removed.Position, base, durations)
			for _, e := range remaining {
				if e.Position < removed.Position {
					continue
				}
				if err := uc.queueRepo.UpdatePositionAndEstimates(ctx, e); err != nil {
					return nil, fmt.Errorf("%w: failed to update queue estimates for entry id=%d: %v", ErrInternal, e.ID, err)
				}
			}
		}
	}

	return entries, nil
}

// cancelAssignments отменяет все активные назначения бронирования
func (uc *UseCase) cancelAssignments(ctx context.Context, bookingID int64) error {
	assignments, err := uc.assignmentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("%w: failed to get assignments: %v", ErrInternal, err)
	}

	for _, a := range assignments {
		if !a.Status.IsActive() {
			continue
		}
		if err := uc.assignmentRepo.UpdateStatus(ctx, a.ID, domain.AssignmentStatusCancelled); err != nil {
			return fmt.Errorf("%w: failed to cancel assignment id=%d: %v", ErrInternal, a.ID, err)
		}
	}
	return nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.Reason == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	return nil
}
