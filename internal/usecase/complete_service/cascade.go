package complete_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bayschedule"
	"github.com/m04kA/VSC-SchedulingService/pkg/types"
)

// runCascade выполняет каскадный пересчет после завершения слота
//
// Раннее завершение сверх порога: голова очереди бокса продвигается в окно
// [actualEnd, actualEnd+duration), если оно не конфликтует с занятыми слотами.
// Опоздание: следующий BOOKED слот помечается флагом AtRisk, автоматического
// сдвига не происходит. В обоих случаях оценки оставшейся очереди
// пересчитываются от момента фактического завершения
func (uc *UseCase) runCascade(ctx context.Context, slot *domain.BaySchedule, earlyMinutes, lateMinutes int, actualEnd time.Time) (*PromotedEntry, *int64, error) {
	var atRiskSlotID *int64

	if lateMinutes > 0 {
		next, err := uc.scheduleRepo.GetNextScheduled(ctx, slot.BayID, slot.Date, slot.EndTime)
		if err != nil && !errors.Is(err, scheduleRepo.ErrSlotNotFound) {
			return nil, nil, fmt.Errorf("%w: failed to get next scheduled slot: %v", ErrInternal, err)
		}
		if next != nil && next.Status == domain.SlotStatusBooked {
			next.AtRisk = true
			if err := uc.scheduleRepo.Update(ctx, next); err != nil {
				return nil, nil, fmt.Errorf("%w: failed to mark slot at risk: %v", ErrInternal, err)
			}
			uc.logger.Warn("CompleteService: bay=%d ran %dmin late, slot id=%d marked at risk",
				slot.BayID, lateMinutes, next.ID)
			atRiskSlotID = &next.ID
		}
	}

	entries, err := uc.queueRepo.GetActiveByBayAndDate(ctx, slot.BayID, slot.Date)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to get queue: %v", ErrInternal, err)
	}
	if len(entries) == 0 {
		return nil, atRiskSlotID, nil
	}
	if err := domain.ValidateQueueContiguity(entries); err != nil {
		uc.logger.Error("CompleteService: queue integrity violated for bay=%d: %v", slot.BayID, err)
		return nil, nil, err
	}
	domain.SortByPosition(entries)

	var promoted *PromotedEntry
	estimateBase := actualEnd

	if earlyMinutes > uc.earlyThresholdMinutes {
		promoted, err = uc.promoteQueueHead(ctx, slot, entries[0], actualEnd)
		if err != nil {
			return nil, nil, err
		}
		if promoted != nil {
			// Голова выбыла из очереди, остальные сдвигаются вверх
			shifted := domain.ShiftAfterRemoval(entries, entries[0].Position)
			for _, e := range shifted {
				if err := uc.queueRepo.UpdatePositionAndEstimates(ctx, e); err != nil {
					return nil, nil, fmt.Errorf("%w: failed to shift queue entry id=%d: %v", ErrInternal, e.ID, err)
				}
			}
			estimateBase = promoted.EndTime.At(slot.Date)
			entries = entries[1:]
		}
	}

	if err := uc.reestimateQueue(ctx, entries, estimateBase); err != nil {
		return nil, nil, err
	}

	return promoted, atRiskSlotID, nil
}

// promoteQueueHead пытается продвинуть голову очереди в освободившееся окно
// Возвращает nil без ошибки, когда продвижение невозможно: окно выходит за
// пределы суток, конфликтует с занятыми слотами либо бронирование головы уже
// неактивно
func (uc *UseCase) promoteQueueHead(ctx context.Context, freed *domain.BaySchedule, head *domain.BayQueueEntry, actualEnd time.Time) (*PromotedEntry, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, head.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CompleteService: queue head entry id=%d references missing booking id=%d",
				head.ID, head.BookingID)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get queued booking: %v", ErrInternal, err)
	}
	if !booking.IsActive() {
		uc.logger.Warn("CompleteService: queue head booking id=%d in terminal status=%s, skipping promotion",
			booking.ID, booking.Status)
		return nil, nil
	}

	duration := booking.EstimatedDurationMinutes
	if duration <= 0 {
		duration = domain.DefaultQueueEstimateMinutes
	}

	startTime := types.NewTimeString(actualEnd)
	endTime, err := startTime.AddMinutes(duration)
	if err != nil {
		// Окно уходит за полночь, продвижение невозможно
		uc.logger.Warn("CompleteService: promotion window for booking id=%d exceeds day range: %v",
			booking.ID, err)
		return nil, nil
	}

	committed, err := uc.scheduleRepo.GetByBayAndDate(ctx, freed.BayID, freed.Date, domain.CommittedSlotStatuses)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get committed slots: %v", ErrInternal, err)
	}
	window := domain.Interval{Start: startTime.At(freed.Date), End: endTime.At(freed.Date)}
	if domain.HasConflict(window, domain.CommittedIntervals(committed, 0)) {
		uc.logger.Info("CompleteService: promotion window %s-%s conflicts with committed slots, bay=%d",
			startTime, endTime, freed.BayID)
		return nil, nil
	}

	newSlot := &domain.BaySchedule{
		BayID:     freed.BayID,
		Date:      freed.Date,
		StartTime: startTime,
		EndTime:   endTime,
		Status:    domain.SlotStatusBooked,
		BookingID: &booking.ID,
	}
	created, err := uc.scheduleRepo.Create(ctx, newSlot)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create promoted slot: %v", ErrInternal, err)
	}

	scheduledStart := window.Start
	scheduledEnd := window.End
	if err := uc.bookingRepo.UpdateSchedule(ctx, booking.ID, &freed.BayID, &scheduledStart, &scheduledEnd); err != nil {
		return nil, fmt.Errorf("%w: failed to update promoted booking schedule: %v", ErrInternal, err)
	}
	if booking.Status == domain.BookingStatusPending {
		if err := uc.bookingRepo.UpdateStatus(ctx, booking.ID, domain.BookingStatusConfirmed); err != nil {
			return nil, fmt.Errorf("%w: failed to confirm promoted booking: %v", ErrInternal, err)
		}
	}

	if err := uc.queueRepo.Deactivate(ctx, head.ID); err != nil {
		return nil, fmt.Errorf("%w: failed to deactivate queue entry: %v", ErrInternal, err)
	}

	uc.logger.Info("CompleteService: booking=%d promoted from queue into %s-%s on bay=%d",
		booking.ID, startTime, endTime, freed.BayID)

	return &PromotedEntry{
		EntryID:   head.ID,
		BookingID: booking.ID,
		SlotID:    created.ID,
		StartTime: startTime,
		EndTime:   endTime,
	}, nil
}

// reestimateQueue пересчитывает и сохраняет оценки всех оставшихся активных
// записей, начиная от base
func (uc *UseCase) reestimateQueue(ctx context.Context, entries []*domain.BayQueueEntry, base time.Time) error {
	if len(entries) == 0 {
		return nil
	}

	durations := make(map[int64]int, len(entries))
	for _, e := range entries {
		b, err := uc.bookingRepo.GetByID(ctx, e.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				continue
			}
			return fmt.Errorf("%w: failed to get queued booking id=%d: %v", ErrInternal, e.BookingID, err)
		}
		durations[e.BookingID] = b.EstimatedDurationMinutes
	}

	domain.PropagateQueueEstimates(entries, 1, base, durations)

	for _, e := range entries {
		if err := uc.queueRepo.UpdatePositionAndEstimates(ctx, e); err != nil {
			return fmt.Errorf("%w: failed to update queue estimates for entry id=%d: %v", ErrInternal, e.ID, err)
		}
	}
	return nil
}
