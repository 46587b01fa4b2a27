package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VSC-SchedulingService/pkg/types"
)

func scheduleSlot(t *testing.T, status SlotStatus, start, end string) *BaySchedule {
	t.Helper()
	return &BaySchedule{
		ID:        1,
		BayID:     1,
		Date:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime: types.NewTimeString(mustClock(t, start)),
		EndTime:   types.NewTimeString(mustClock(t, end)),
		Status:    status,
	}
}

func mustClock(t *testing.T, hhmm string) time.Time {
	t.Helper()
	parsed, err := time.Parse("15:04", hhmm)
	require.NoError(t, err)
	return time.Date(2025, 6, 2, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
}

func TestSlotStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from SlotStatus
		to   SlotStatus
		want bool
	}{
		{SlotStatusAvailable, SlotStatusBooked, true},
		{SlotStatusAvailable, SlotStatusCancelled, true},
		{SlotStatusBooked, SlotStatusInProgress, true},
		{SlotStatusBooked, SlotStatusAvailable, true},
		{SlotStatusBooked, SlotStatusCancelled, true},
		{SlotStatusInProgress, SlotStatusCompleted, true},

		{SlotStatusAvailable, SlotStatusInProgress, false},
		{SlotStatusAvailable, SlotStatusCompleted, false},
		{SlotStatusInProgress, SlotStatusCancelled, false},
		{SlotStatusCompleted, SlotStatusAvailable, false},
		{SlotStatusCancelled, SlotStatusBooked, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBaySchedule_ReserveStartComplete(t *testing.T) {
	slot := scheduleSlot(t, SlotStatusAvailable, "10:00", "11:00")

	require.NoError(t, slot.Reserve(42))
	assert.Equal(t, SlotStatusBooked, slot.Status)
	require.NotNil(t, slot.BookingID)
	assert.Equal(t, int64(42), *slot.BookingID)

	startedAt := mustClock(t, "10:05")
	require.NoError(t, slot.Start(startedAt))
	assert.Equal(t, SlotStatusInProgress, slot.Status)
	assert.Equal(t, startedAt, *slot.ActualStartAt)

	early, err := slot.Complete(mustClock(t, "10:40"))
	require.NoError(t, err)
	assert.Equal(t, 20, early)
	assert.Equal(t, SlotStatusCompleted, slot.Status)
}

func TestBaySchedule_Start_RequiresBoundBooking(t *testing.T) {
	slot := scheduleSlot(t, SlotStatusBooked, "10:00", "11:00")

	err := slot.Start(mustClock(t, "10:00"))
	assert.ErrorIs(t, err, ErrSlotNotBound)
}

func TestBaySchedule_Complete_Late(t *testing.T) {
	slot := scheduleSlot(t, SlotStatusInProgress, "10:00", "11:00")
	bookingID := int64(42)
	slot.BookingID = &bookingID

	actualEnd := mustClock(t, "11:25")
	early, err := slot.Complete(actualEnd)
	require.NoError(t, err)
	assert.Equal(t, 0, early)
	assert.Equal(t, 25, slot.LateMinutes(actualEnd))
}

func TestBaySchedule_Release(t *testing.T) {
	slot := scheduleSlot(t, SlotStatusBooked, "10:00", "11:00")
	bookingID := int64(42)
	slot.BookingID = &bookingID
	slot.AtRisk = true

	require.NoError(t, slot.Release())
	assert.Equal(t, SlotStatusAvailable, slot.Status)
	assert.Nil(t, slot.BookingID)
	assert.False(t, slot.AtRisk)

	inProgress := scheduleSlot(t, SlotStatusInProgress, "10:00", "11:00")
	assert.ErrorIs(t, inProgress.Release(), ErrInvalidSlotTransition)
}

func TestBaySchedule_Cancel(t *testing.T) {
	slot := scheduleSlot(t, SlotStatusBooked, "10:00", "11:00")
	bookingID := int64(42)
	slot.BookingID = &bookingID

	require.NoError(t, slot.Cancel("client request"))
	assert.Equal(t, SlotStatusCancelled, slot.Status)
	assert.Nil(t, slot.BookingID)
	require.NotNil(t, slot.CancellationReason)
	assert.Equal(t, "client request", *slot.CancellationReason)
}

func TestCommittedIntervals(t *testing.T) {
	booked := scheduleSlot(t, SlotStatusBooked, "09:00", "10:00")
	booked.ID = 1
	inProgress := scheduleSlot(t, SlotStatusInProgress, "10:00", "11:00")
	inProgress.ID = 2
	available := scheduleSlot(t, SlotStatusAvailable, "11:00", "12:00")
	available.ID = 3
	completed := scheduleSlot(t, SlotStatusCompleted, "12:00", "13:00")
	completed.ID = 4

	slots := []*BaySchedule{booked, inProgress, available, completed}

	intervals := CommittedIntervals(slots, 0)
	assert.Len(t, intervals, 2)

	intervals = CommittedIntervals(slots, 2)
	require.Len(t, intervals, 1)
	assert.Equal(t, booked.Window(), intervals[0])
}
