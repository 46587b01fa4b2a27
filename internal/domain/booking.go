package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidBookingTransition возвращается при недопустимом переходе статуса бронирования
	ErrInvalidBookingTransition = errors.New("domain: invalid booking status transition")
)

// BookingStatus represents the customer-facing status of a booking
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusCheckedIn  BookingStatus = "checked_in"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusPaused     BookingStatus = "paused"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusNoShow     BookingStatus = "no_show"
)

// BookingType distinguishes scheduled bookings from walk-ins
type BookingType string

const (
	BookingTypeScheduled BookingType = "scheduled"
	BookingTypeWalkIn    BookingType = "walk_in"
)

// PaymentStatus payment state snapshot carried on the booking
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Booking represents one customer's request for service at a branch
// Customer and vehicle references are nullable (guest/walk-in bookings carry
// snapshot data only); the bay reference is set once a slot is reserved
type Booking struct {
	ID       int64
	Code     string
	BranchID int64
	BayID    *int64

	CustomerID    *int64
	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string

	VehicleID    *int64
	VehiclePlate *string
	VehicleBrand *string
	VehicleModel *string

	PreferredStartAt *time.Time
	ScheduledStartAt *time.Time
	ScheduledEndAt   *time.Time
	ActualStartAt    *time.Time
	ActualEndAt      *time.Time

	EstimatedDurationMinutes int
	TotalPrice               float64
	PaymentStatus            PaymentStatus
	Type                     BookingType
	Status                   BookingStatus

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if the status permits no further transitions
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow:
		return true
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCheckedIn,
		BookingStatusInProgress, BookingStatusPaused:
		return false
	}
	return false
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next
// The switch is exhaustive over all states so a new status forces every
// transition site to be revisited
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	// CANCELLED and NO_SHOW are reachable from any non-terminal state
	if next == BookingStatusCancelled || next == BookingStatusNoShow {
		return !s.IsTerminal()
	}

	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed
	case BookingStatusConfirmed:
		return next == BookingStatusCheckedIn
	case BookingStatusCheckedIn:
		return next == BookingStatusInProgress
	case BookingStatusInProgress:
		return next == BookingStatusPaused || next == BookingStatusCompleted
	case BookingStatusPaused:
		return next == BookingStatusInProgress
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow:
		return false
	}
	return false
}

// TransitionTo mutates the booking status after validating the transition
// This is the only place allowed to change Status
func (b *Booking) TransitionTo(next BookingStatus) error {
	if !b.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s (booking id=%d)", ErrInvalidBookingTransition, b.Status, next, b.ID)
	}
	b.Status = next
	return nil
}

// IsActive returns true if the booking is in a non-terminal state
func (b *Booking) IsActive() bool {
	return !b.Status.IsTerminal()
}

// CanBeCancelled returns true if the booking may still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return !b.Status.IsTerminal()
}

// ScheduledWindow returns the scheduled interval if both bounds are set
func (b *Booking) ScheduledWindow() (Interval, bool) {
	if b.ScheduledStartAt == nil || b.ScheduledEndAt == nil {
		return Interval{}, false
	}
	iv, err := NewInterval(*b.ScheduledStartAt, *b.ScheduledEndAt)
	if err != nil {
		return Interval{}, false
	}
	return iv, true
}

// ValidBookingStatus проверяет, что строка является известным статусом бронирования
func ValidBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCheckedIn,
		BookingStatusInProgress, BookingStatusPaused, BookingStatusCompleted,
		BookingStatusCancelled, BookingStatusNoShow:
		return BookingStatus(s), true
	}
	return "", false
}

// BranchBookingsFilter фильтр для получения бронирований филиала
type BranchBookingsFilter struct {
	BranchID        int64
	BayID           *int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *BookingStatus
	IncludeInactive bool
}
