package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
)

type stubServiceSlotRepo struct {
	slots []*domain.ServiceSlot
	calls int
}

func (s *stubServiceSlotRepo) ListCustomerBookable(_ context.Context, _ int64, _ time.Time) ([]*domain.ServiceSlot, error) {
	s.calls++
	return s.slots, nil
}

type stubScheduleRepo struct {
	slots []*domain.BaySchedule
	calls int
}

func (s *stubScheduleRepo) GetByBayAndDate(_ context.Context, _ int64, _ time.Time, _ []domain.SlotStatus) ([]*domain.BaySchedule, error) {
	s.calls++
	return s.slots, nil
}

type stubQueueRepo struct {
	entries   []*domain.BayQueueEntry
	calls     int
	lastLimit int
}

func (s *stubQueueRepo) PeekActive(_ context.Context, _ int64, _ time.Time, limit int) ([]*domain.BayQueueEntry, error) {
	s.calls++
	s.lastLimit = limit
	return s.entries, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testDate() time.Time {
	return time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
}

func TestGetAvailability_CachesSnapshot(t *testing.T) {
	slotRepo := &stubServiceSlotRepo{
		slots: []*domain.ServiceSlot{
			{ID: 1, BranchID: 3, Date: testDate(), StartTime: "10:00", EndTime: "11:00",
				Category: domain.SlotCategoryStandard, Status: domain.ServiceSlotStatusAvailable},
		},
	}
	svc := NewService(slotRepo, &stubScheduleRepo{}, &stubQueueRepo{}, time.Minute, nopLogger{})

	first, err := svc.GetAvailability(context.Background(), 3, testDate())
	require.NoError(t, err)
	require.Len(t, first.Slots, 1)

	second, err := svc.GetAvailability(context.Background(), 3, testDate())
	require.NoError(t, err)
	assert.Same(t, first, second, "second read within TTL is served from the snapshot")
	assert.Equal(t, 1, slotRepo.calls)
}

func TestGetAvailability_InvalidInput(t *testing.T) {
	svc := NewService(&stubServiceSlotRepo{}, &stubScheduleRepo{}, &stubQueueRepo{}, time.Minute, nopLogger{})

	_, err := svc.GetAvailability(context.Background(), 0, testDate())
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetAvailability(context.Background(), 3, time.Time{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPeekQueue_LimitClampedAndUncached(t *testing.T) {
	queueRepo := &stubQueueRepo{
		entries: []*domain.BayQueueEntry{
			{ID: 1, BayID: 7, BookingID: 9, Position: 1, QueueDate: testDate(), IsActive: true},
		},
	}
	svc := NewService(&stubServiceSlotRepo{}, &stubScheduleRepo{}, queueRepo, time.Minute, nopLogger{})

	_, err := svc.PeekQueue(context.Background(), 7, testDate(), domain.MaxQueuePeekEntries+100)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxQueuePeekEntries, queueRepo.lastLimit)

	_, err = svc.PeekQueue(context.Background(), 7, testDate(), domain.MaxQueuePeekEntries+100)
	require.NoError(t, err)
	assert.Equal(t, 2, queueRepo.calls, "нестандартный лимит читается мимо снапшота")

	_, err = svc.PeekQueue(context.Background(), 7, testDate(), 0)
	require.NoError(t, err)
	assert.Equal(t, queuePeekLimit, queueRepo.lastLimit)
}

func TestGetBayGrid_SeparateKeysPerDate(t *testing.T) {
	scheduleRepo := &stubScheduleRepo{
		slots: []*domain.BaySchedule{
			{ID: 1, BayID: 7, Date: testDate(), StartTime: "10:00", EndTime: "11:00", Status: domain.SlotStatusAvailable},
		},
	}
	svc := NewService(&stubServiceSlotRepo{}, scheduleRepo, &stubQueueRepo{}, time.Minute, nopLogger{})

	_, err := svc.GetBayGrid(context.Background(), 7, testDate())
	require.NoError(t, err)
	_, err = svc.GetBayGrid(context.Background(), 7, testDate().AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, 2, scheduleRepo.calls)
}

func TestInvalidateBay_ForcesFreshRead(t *testing.T) {
	queueRepo := &stubQueueRepo{
		entries: []*domain.BayQueueEntry{
			{ID: 1, BayID: 7, BookingID: 9, Position: 1, QueueDate: testDate(), IsActive: true},
		},
	}
	svc := NewService(&stubServiceSlotRepo{}, &stubScheduleRepo{}, queueRepo, time.Minute, nopLogger{})

	_, err := svc.PeekQueue(context.Background(), 7, testDate(), 0)
	require.NoError(t, err)
	_, err = svc.PeekQueue(context.Background(), 7, testDate(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, queueRepo.calls)

	svc.InvalidateBay(7, testDate())

	_, err = svc.PeekQueue(context.Background(), 7, testDate(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, queueRepo.calls)
}
