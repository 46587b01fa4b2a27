package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/VSC-SchedulingService/pkg/types"
)

// SlotCategory category tag of a branch-level slot
type SlotCategory string

const (
	SlotCategoryStandard    SlotCategory = "standard"
	SlotCategoryVIP         SlotCategory = "vip"
	SlotCategoryExpress     SlotCategory = "express"
	SlotCategoryMaintenance SlotCategory = "maintenance"
)

// ServiceSlotStatus state of a branch-level slot
type ServiceSlotStatus string

const (
	ServiceSlotStatusAvailable ServiceSlotStatus = "available"
	ServiceSlotStatusBooked    ServiceSlotStatus = "booked"
	ServiceSlotStatusClosed    ServiceSlotStatus = "closed"
)

// ServiceSlot a branch-level, pre-bay-assignment offer shown to customers
// A booked slot references exactly one non-terminal booking; once a concrete
// bay is chosen the slot is bound to a bay schedule entry through the booking
type ServiceSlot struct {
	ID        int64
	BranchID  int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Category  SlotCategory
	Status    ServiceSlotStatus

	BookingID *int64
	// PriorityOrder display/selection ranking for VIP and express slots,
	// never used for conflict resolution
	PriorityOrder int

	CloseReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCustomerBookable returns true if the slot may appear in customer-facing
// listings; maintenance slots never do
func (s *ServiceSlot) IsCustomerBookable() bool {
	return s.Status == ServiceSlotStatusAvailable && s.Category != SlotCategoryMaintenance
}

// Window returns the slot interval bound to its date
func (s *ServiceSlot) Window() Interval {
	return Interval{
		Start: s.StartTime.At(s.Date),
		End:   s.EndTime.At(s.Date),
	}
}

// OverlapsWith returns true if both slots are on the same date and their
// windows intersect under the half-open interval rule
func (s *ServiceSlot) OverlapsWith(other *ServiceSlot) bool {
	if !sameDay(s.Date, other.Date) {
		return false
	}
	return s.Window().Overlaps(other.Window())
}

// AssignBooking binds a booking to the slot: AVAILABLE -> BOOKED
func (s *ServiceSlot) AssignBooking(bookingID int64) error {
	if s.Status != ServiceSlotStatusAvailable {
		return fmt.Errorf("%w: %s -> %s (service slot id=%d)", ErrInvalidSlotTransition, s.Status, ServiceSlotStatusBooked, s.ID)
	}
	if s.Category == SlotCategoryMaintenance {
		return fmt.Errorf("%w: maintenance slot id=%d is not customer-bookable", ErrInvalidSlotTransition, s.ID)
	}
	s.Status = ServiceSlotStatusBooked
	s.BookingID = &bookingID
	return nil
}

// UnassignBooking releases the slot back to AVAILABLE: BOOKED -> AVAILABLE
func (s *ServiceSlot) UnassignBooking() error {
	if s.Status != ServiceSlotStatusBooked {
		return fmt.Errorf("%w: %s -> %s (service slot id=%d)", ErrInvalidSlotTransition, s.Status, ServiceSlotStatusAvailable, s.ID)
	}
	s.Status = ServiceSlotStatusAvailable
	s.BookingID = nil
	return nil
}

// Close withdraws the slot from offering, recording the reason
func (s *ServiceSlot) Close(reason string) error {
	if s.Status == ServiceSlotStatusBooked {
		return fmt.Errorf("%w: cannot close booked service slot id=%d", ErrInvalidSlotTransition, s.ID)
	}
	s.Status = ServiceSlotStatusClosed
	s.CloseReason = &reason
	return nil
}

// Open returns a closed slot to offering
func (s *ServiceSlot) Open() error {
	if s.Status != ServiceSlotStatusClosed {
		return fmt.Errorf("%w: %s -> %s (service slot id=%d)", ErrInvalidSlotTransition, s.Status, ServiceSlotStatusAvailable, s.ID)
	}
	s.Status = ServiceSlotStatusAvailable
	s.CloseReason = nil
	return nil
}

// ValidSlotCategory проверяет, что строка является известной категорией слота
func ValidSlotCategory(s string) (SlotCategory, bool) {
	switch SlotCategory(s) {
	case SlotCategoryStandard, SlotCategoryVIP, SlotCategoryExpress, SlotCategoryMaintenance:
		return SlotCategory(s), true
	}
	return "", false
}

// sameDay проверяет, что две даты относятся к одному календарному дню
func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
