package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidAssignmentTransition возвращается при недопустимом переходе статуса назначения
	ErrInvalidAssignmentTransition = errors.New("domain: invalid assignment status transition")
)

// AssignmentStatus state of a staff/equipment commitment
type AssignmentStatus string

const (
	AssignmentStatusAssigned   AssignmentStatus = "assigned"
	AssignmentStatusInProgress AssignmentStatus = "in_progress"
	AssignmentStatusCompleted  AssignmentStatus = "completed"
	AssignmentStatusCancelled  AssignmentStatus = "cancelled"
	AssignmentStatusNoShow     AssignmentStatus = "no_show"
)

// StaffRole role of the assigned staff member on the booking
type StaffRole string

const (
	RoleLeadTechnician StaffRole = "lead_technician"
	RoleAssistant      StaffRole = "assistant"
	RoleCleaner        StaffRole = "cleaner"
	RoleSupervisor     StaffRole = "supervisor"
	RoleManager        StaffRole = "manager"
	RoleReceptionist   StaffRole = "receptionist"
)

// ResourceType kind of physical resource committed alongside the staff member
type ResourceType string

const (
	ResourceTypeBay       ResourceType = "bay"
	ResourceTypeLift      ResourceType = "lift"
	ResourceTypeEquipment ResourceType = "equipment"
	ResourceTypeTool      ResourceType = "tool"
	ResourceTypeRoom      ResourceType = "room"
)

// BookingAssignment commitment of a staff member or equipment resource to a
// booking over a time window. For a given staff member no two assignments in
// {ASSIGNED, IN_PROGRESS} may have overlapping [AssignedFrom, AssignedTo) windows
type BookingAssignment struct {
	ID        int64
	BookingID int64
	StaffID   int64
	Role      StaffRole

	AssignedFrom time.Time
	AssignedTo   time.Time

	ResourceType *ResourceType
	ResourceID   *int64
	ResourceName *string

	Status AssignmentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the assignment occupies the staff member's window
func (s AssignmentStatus) IsActive() bool {
	return s == AssignmentStatusAssigned || s == AssignmentStatusInProgress
}

// CanTransitionTo reports whether the assignment state machine permits s -> next
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	switch s {
	case AssignmentStatusAssigned:
		return next == AssignmentStatusInProgress || next == AssignmentStatusCancelled || next == AssignmentStatusNoShow
	case AssignmentStatusInProgress:
		return next == AssignmentStatusCompleted || next == AssignmentStatusCancelled
	case AssignmentStatusCompleted, AssignmentStatusCancelled, AssignmentStatusNoShow:
		return false
	}
	return false
}

// Window returns the assignment interval
func (a *BookingAssignment) Window() Interval {
	return Interval{Start: a.AssignedFrom, End: a.AssignedTo}
}

// Start moves the assignment to IN_PROGRESS
func (a *BookingAssignment) Start() error {
	return a.transition(AssignmentStatusInProgress)
}

// Complete moves the assignment to COMPLETED
func (a *BookingAssignment) Complete() error {
	return a.transition(AssignmentStatusCompleted)
}

// Cancel moves the assignment to CANCELLED
func (a *BookingAssignment) Cancel() error {
	return a.transition(AssignmentStatusCancelled)
}

func (a *BookingAssignment) transition(next AssignmentStatus) error {
	if !a.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s (assignment id=%d)", ErrInvalidAssignmentTransition, a.Status, next, a.ID)
	}
	a.Status = next
	return nil
}

// ActiveAssignmentIntervals собирает окна назначений в статусах ASSIGNED/IN_PROGRESS
func ActiveAssignmentIntervals(assignments []*BookingAssignment) []Interval {
	intervals := make([]Interval, 0, len(assignments))
	for _, a := range assignments {
		if a.Status.IsActive() {
			intervals = append(intervals, a.Window())
		}
	}
	return intervals
}

// ValidStaffRole проверяет, что строка является известной ролью
func ValidStaffRole(s string) (StaffRole, bool) {
	switch StaffRole(s) {
	case RoleLeadTechnician, RoleAssistant, RoleCleaner, RoleSupervisor, RoleManager, RoleReceptionist:
		return StaffRole(s), true
	}
	return "", false
}

// ValidResourceType проверяет, что строка является известным типом ресурса
func ValidResourceType(s string) (ResourceType, bool) {
	switch ResourceType(s) {
	case ResourceTypeBay, ResourceTypeLift, ResourceTypeEquipment, ResourceTypeTool, ResourceTypeRoom:
		return ResourceType(s), true
	}
	return "", false
}
