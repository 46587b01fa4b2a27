package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assignment(status AssignmentStatus, startHour, endHour int) *BookingAssignment {
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	return &BookingAssignment{
		ID:           1,
		BookingID:    2,
		StaffID:      5,
		Role:         RoleLeadTechnician,
		AssignedFrom: day.Add(time.Duration(startHour) * time.Hour),
		AssignedTo:   day.Add(time.Duration(endHour) * time.Hour),
		Status:       status,
	}
}

func TestBookingAssignment_Lifecycle(t *testing.T) {
	a := assignment(AssignmentStatusAssigned, 10, 12)

	require.NoError(t, a.Start())
	assert.Equal(t, AssignmentStatusInProgress, a.Status)

	require.NoError(t, a.Complete())
	assert.Equal(t, AssignmentStatusCompleted, a.Status)

	assert.Error(t, a.Start(), "terminal assignment cannot restart")
}

func TestBookingAssignment_CancelFromAssigned(t *testing.T) {
	a := assignment(AssignmentStatusAssigned, 10, 12)

	require.NoError(t, a.Cancel())
	assert.Equal(t, AssignmentStatusCancelled, a.Status)
}

func TestAssignmentStatus_IsActive(t *testing.T) {
	assert.True(t, AssignmentStatusAssigned.IsActive())
	assert.True(t, AssignmentStatusInProgress.IsActive())
	assert.False(t, AssignmentStatusCompleted.IsActive())
	assert.False(t, AssignmentStatusCancelled.IsActive())
	assert.False(t, AssignmentStatusNoShow.IsActive())
}

func TestActiveAssignmentIntervals(t *testing.T) {
	assignments := []*BookingAssignment{
		assignment(AssignmentStatusAssigned, 9, 10),
		assignment(AssignmentStatusInProgress, 11, 12),
		assignment(AssignmentStatusCompleted, 13, 14),
		assignment(AssignmentStatusCancelled, 15, 16),
	}

	intervals := ActiveAssignmentIntervals(assignments)

	require.Len(t, intervals, 2)
	assert.Equal(t, assignments[0].Window(), intervals[0])
	assert.Equal(t, assignments[1].Window(), intervals[1])
}

func TestValidStaffRole(t *testing.T) {
	role, ok := ValidStaffRole("lead_technician")
	require.True(t, ok)
	assert.Equal(t, RoleLeadTechnician, role)

	_, ok = ValidStaffRole("janitor")
	assert.False(t, ok)
}

func TestValidResourceType(t *testing.T) {
	rt, ok := ValidResourceType("lift")
	require.True(t, ok)
	assert.Equal(t, ResourceTypeLift, rt)

	_, ok = ValidResourceType("crane")
	assert.False(t, ok)
}
