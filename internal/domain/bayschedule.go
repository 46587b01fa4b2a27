package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/VSC-SchedulingService/pkg/types"
)

var (
	// ErrInvalidSlotTransition возвращается при недопустимом переходе статуса слота
	ErrInvalidSlotTransition = errors.New("domain: invalid slot status transition")

	// ErrSlotNotBound возвращается, когда операция требует привязанного бронирования
	ErrSlotNotBound = errors.New("domain: slot has no bound booking")
)

// SlotStatus state of one bay schedule slot
type SlotStatus string

const (
	SlotStatusAvailable  SlotStatus = "available"
	SlotStatusBooked     SlotStatus = "booked"
	SlotStatusInProgress SlotStatus = "in_progress"
	SlotStatusCompleted  SlotStatus = "completed"
	SlotStatusCancelled  SlotStatus = "cancelled"
)

// BaySchedule one time window on one bay on one calendar day
// Slots progress strictly AVAILABLE -> BOOKED -> IN_PROGRESS -> COMPLETED;
// CANCELLED is reachable from AVAILABLE or BOOKED only
type BaySchedule struct {
	ID        int64
	BayID     int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Status    SlotStatus

	BookingID     *int64
	ActualStartAt *time.Time
	ActualEndAt   *time.Time
	AtRisk        bool

	CancellationReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCommitted returns true if the slot occupies its bay window
func (s SlotStatus) IsCommitted() bool {
	return s == SlotStatusBooked || s == SlotStatusInProgress
}

// CanTransitionTo reports whether the slot state machine permits s -> next
func (s SlotStatus) CanTransitionTo(next SlotStatus) bool {
	switch s {
	case SlotStatusAvailable:
		return next == SlotStatusBooked || next == SlotStatusCancelled
	case SlotStatusBooked:
		return next == SlotStatusInProgress || next == SlotStatusCancelled || next == SlotStatusAvailable
	case SlotStatusInProgress:
		return next == SlotStatusCompleted
	case SlotStatusCompleted, SlotStatusCancelled:
		return false
	}
	return false
}

// Window returns the scheduled interval of the slot bound to its date
func (s *BaySchedule) Window() Interval {
	return Interval{
		Start: s.StartTime.At(s.Date),
		End:   s.EndTime.At(s.Date),
	}
}

// DurationMinutes returns the scheduled length of the slot in minutes
func (s *BaySchedule) DurationMinutes() int {
	return s.EndTime.Sub(s.StartTime)
}

// Reserve binds a booking to the slot: AVAILABLE -> BOOKED
func (s *BaySchedule) Reserve(bookingID int64) error {
	if !s.Status.CanTransitionTo(SlotStatusBooked) {
		return fmt.Errorf("%w: %s -> %s (slot id=%d)", ErrInvalidSlotTransition, s.Status, SlotStatusBooked, s.ID)
	}
	s.Status = SlotStatusBooked
	s.BookingID = &bookingID
	return nil
}

// Start records the actual start of work: BOOKED -> IN_PROGRESS
func (s *BaySchedule) Start(at time.Time) error {
	if s.Status != SlotStatusBooked {
		return fmt.Errorf("%w: %s -> %s (slot id=%d)", ErrInvalidSlotTransition, s.Status, SlotStatusInProgress, s.ID)
	}
	if s.BookingID == nil {
		return fmt.Errorf("%w: slot id=%d", ErrSlotNotBound, s.ID)
	}
	s.Status = SlotStatusInProgress
	s.ActualStartAt = &at
	return nil
}

// Complete records the actual end of work: IN_PROGRESS -> COMPLETED
// Returns the early-completion minutes (scheduledEnd - actualEnd, floored at
// zero) consumed by the cascade rescheduler
func (s *BaySchedule) Complete(actualEnd time.Time) (int, error) {
	if s.Status != SlotStatusInProgress {
		return 0, fmt.Errorf("%w: %s -> %s (slot id=%d)", ErrInvalidSlotTransition, s.Status, SlotStatusCompleted, s.ID)
	}
	s.Status = SlotStatusCompleted
	s.ActualEndAt = &actualEnd
	return s.EarlyCompletionMinutes(actualEnd), nil
}

// EarlyCompletionMinutes returns scheduledEnd - actualEnd in whole minutes,
// floored at zero for on-time and late completions
func (s *BaySchedule) EarlyCompletionMinutes(actualEnd time.Time) int {
	early := int(s.Window().End.Sub(actualEnd).Minutes())
	if early < 0 {
		return 0
	}
	return early
}

// LateMinutes returns actualEnd - scheduledEnd in whole minutes, floored at zero
func (s *BaySchedule) LateMinutes(actualEnd time.Time) int {
	late := int(actualEnd.Sub(s.Window().End).Minutes())
	if late < 0 {
		return 0
	}
	return late
}

// Cancel unbinds the booking and records the reason: AVAILABLE/BOOKED -> CANCELLED
func (s *BaySchedule) Cancel(reason string) error {
	if !s.Status.CanTransitionTo(SlotStatusCancelled) {
		return fmt.Errorf("%w: %s -> %s (slot id=%d)", ErrInvalidSlotTransition, s.Status, SlotStatusCancelled, s.ID)
	}
	s.Status = SlotStatusCancelled
	s.BookingID = nil
	s.CancellationReason = &reason
	return nil
}

// Release returns a booked slot to AVAILABLE, clearing the booking and actual
// times; used by cancellation-driven cleanup
func (s *BaySchedule) Release() error {
	if s.Status != SlotStatusBooked {
		return fmt.Errorf("%w: %s -> %s (slot id=%d)", ErrInvalidSlotTransition, s.Status, SlotStatusAvailable, s.ID)
	}
	s.Status = SlotStatusAvailable
	s.BookingID = nil
	s.ActualStartAt = nil
	s.ActualEndAt = nil
	s.AtRisk = false
	return nil
}

// CommittedIntervals собирает интервалы слотов в статусах BOOKED/IN_PROGRESS,
// опционально исключая один слот (например, проверяемый)
func CommittedIntervals(slots []*BaySchedule, excludeSlotID int64) []Interval {
	intervals := make([]Interval, 0, len(slots))
	for _, slot := range slots {
		if slot.ID == excludeSlotID {
			continue
		}
		if slot.Status.IsCommitted() {
			intervals = append(intervals, slot.Window())
		}
	}
	return intervals
}
