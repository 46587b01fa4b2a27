package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VSC-SchedulingService/pkg/types"
)

func serviceSlot(status ServiceSlotStatus, category SlotCategory, start, end types.TimeString) *ServiceSlot {
	return &ServiceSlot{
		ID:        1,
		BranchID:  3,
		Date:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime: start,
		EndTime:   end,
		Category:  category,
		Status:    status,
	}
}

func TestServiceSlot_IsCustomerBookable(t *testing.T) {
	assert.True(t, serviceSlot(ServiceSlotStatusAvailable, SlotCategoryStandard, "10:00", "11:00").IsCustomerBookable())
	assert.True(t, serviceSlot(ServiceSlotStatusAvailable, SlotCategoryVIP, "10:00", "11:00").IsCustomerBookable())
	assert.False(t, serviceSlot(ServiceSlotStatusAvailable, SlotCategoryMaintenance, "10:00", "11:00").IsCustomerBookable())
	assert.False(t, serviceSlot(ServiceSlotStatusBooked, SlotCategoryStandard, "10:00", "11:00").IsCustomerBookable())
	assert.False(t, serviceSlot(ServiceSlotStatusClosed, SlotCategoryStandard, "10:00", "11:00").IsCustomerBookable())
}

func TestServiceSlot_AssignUnassignBooking(t *testing.T) {
	slot := serviceSlot(ServiceSlotStatusAvailable, SlotCategoryStandard, "10:00", "11:00")

	require.NoError(t, slot.AssignBooking(42))
	assert.Equal(t, ServiceSlotStatusBooked, slot.Status)
	require.NotNil(t, slot.BookingID)
	assert.Equal(t, int64(42), *slot.BookingID)

	assert.ErrorIs(t, slot.AssignBooking(43), ErrInvalidSlotTransition)

	require.NoError(t, slot.UnassignBooking())
	assert.Equal(t, ServiceSlotStatusAvailable, slot.Status)
	assert.Nil(t, slot.BookingID)
}

func TestServiceSlot_MaintenanceNotAssignable(t *testing.T) {
	slot := serviceSlot(ServiceSlotStatusAvailable, SlotCategoryMaintenance, "10:00", "11:00")
	assert.ErrorIs(t, slot.AssignBooking(42), ErrInvalidSlotTransition)
}

func TestServiceSlot_CloseAndOpen(t *testing.T) {
	slot := serviceSlot(ServiceSlotStatusAvailable, SlotCategoryStandard, "10:00", "11:00")

	require.NoError(t, slot.Close("renovation"))
	assert.Equal(t, ServiceSlotStatusClosed, slot.Status)
	require.NotNil(t, slot.CloseReason)

	require.NoError(t, slot.Open())
	assert.Equal(t, ServiceSlotStatusAvailable, slot.Status)
	assert.Nil(t, slot.CloseReason)

	booked := serviceSlot(ServiceSlotStatusBooked, SlotCategoryStandard, "10:00", "11:00")
	assert.ErrorIs(t, booked.Close("renovation"), ErrInvalidSlotTransition)
}

func TestServiceSlot_OverlapsWith(t *testing.T) {
	a := serviceSlot(ServiceSlotStatusAvailable, SlotCategoryStandard, "10:00", "11:00")
	b := serviceSlot(ServiceSlotStatusAvailable, SlotCategoryStandard, "10:30", "11:30")
	assert.True(t, a.OverlapsWith(b))

	touching := serviceSlot(ServiceSlotStatusAvailable, SlotCategoryStandard, "11:00", "12:00")
	assert.False(t, a.OverlapsWith(touching))

	otherDay := serviceSlot(ServiceSlotStatusAvailable, SlotCategoryStandard, "10:00", "11:00")
	otherDay.Date = otherDay.Date.AddDate(0, 0, 1)
	assert.False(t, a.OverlapsWith(otherDay))
}
