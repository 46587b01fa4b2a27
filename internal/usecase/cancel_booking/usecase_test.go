package cancel_booking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	queueRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bayqueue"
	scheduleRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bayschedule"
	bookingRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/serviceslot"
)

type stubBookingRepo struct {
	bookings  map[int64]*domain.Booking
	cancelled map[int64]domain.BookingStatus
	reasons   map[int64]string
}

func newStubBookingRepo(bookings ...*domain.Booking) *stubBookingRepo {
	s := &stubBookingRepo{
		bookings:  make(map[int64]*domain.Booking),
		cancelled: make(map[int64]domain.BookingStatus),
		reasons:   make(map[int64]string),
	}
	for _, b := range bookings {
		s.bookings[b.ID] = b
	}
	return s
}

func (s *stubBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (s *stubBookingRepo) Cancel(_ context.Context, id int64, status domain.BookingStatus, reason string) error {
	s.cancelled[id] = status
	s.reasons[id] = reason
	return nil
}

type stubScheduleRepo struct {
	activeSlot *domain.BaySchedule
	updated    *domain.BaySchedule
}

func (s *stubScheduleRepo) GetActiveByBookingID(_ context.Context, _ int64) (*domain.BaySchedule, error) {
	if s.activeSlot == nil {
		return nil, scheduleRepo.ErrSlotNotFound
	}
	return s.activeSlot, nil
}

func (s *stubScheduleRepo) Update(_ context.Context, slot *domain.BaySchedule) error {
	s.updated = slot
	return nil
}

type stubServiceSlotRepo struct {
	slot    *domain.ServiceSlot
	updated *domain.ServiceSlot
}

func (s *stubServiceSlotRepo) GetByBookingID(_ context.Context, _ int64) (*domain.ServiceSlot, error) {
	if s.slot == nil {
		return nil, slotRepo.ErrSlotNotFound
	}
	return s.slot, nil
}

func (s *stubServiceSlotRepo) Update(_ context.Context, slot *domain.ServiceSlot) error {
	s.updated = slot
	return nil
}

type stubQueueRepo struct {
	byBooking   []*domain.BayQueueEntry
	byBay       []*domain.BayQueueEntry
	deactivated []int64
	persisted   []*domain.BayQueueEntry
}

func (s *stubQueueRepo) GetActiveByBooking(_ context.Context, _ int64) ([]*domain.BayQueueEntry, error) {
	if len(s.byBooking) == 0 {
		return nil, queueRepo.ErrEntryNotFound
	}
	return s.byBooking, nil
}

func (s *stubQueueRepo) GetActiveByBayAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.BayQueueEntry, error) {
	return s.byBay, nil
}

func (s *stubQueueRepo) Deactivate(_ context.Context, id int64) error {
	s.deactivated = append(s.deactivated, id)
	return nil
}

func (s *stubQueueRepo) UpdatePositionAndEstimates(_ context.Context, entry *domain.BayQueueEntry) error {
	s.persisted = append(s.persisted, entry)
	return nil
}

type stubAssignmentRepo struct {
	assignments []*domain.BookingAssignment
	statuses    map[int64]domain.AssignmentStatus
}

func (s *stubAssignmentRepo) GetByBookingID(_ context.Context, _ int64) ([]*domain.BookingAssignment, error) {
	return s.assignments, nil
}

func (s *stubAssignmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AssignmentStatus) error {
	if s.statuses == nil {
		s.statuses = make(map[int64]domain.AssignmentStatus)
	}
	s.statuses[id] = status
	return nil
}

type stubTxManager struct{}

func (stubTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now() time.Time { return p.now }

type stubCacheInvalidator struct {
	invalidated []int64
}

func (s *stubCacheInvalidator) InvalidateBay(bayID int64, _ time.Time) {
	s.invalidated = append(s.invalidated, bayID)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testDate() time.Time {
	return time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
}

func queuedEntry(id int64, position int, bookingID int64, estimatedStart time.Time) *domain.BayQueueEntry {
	return &domain.BayQueueEntry{
		ID:               id,
		BayID:            7,
		BookingID:        bookingID,
		Position:         position,
		QueueDate:        testDate(),
		EstimatedStartAt: &estimatedStart,
		IsActive:         true,
	}
}

func newTestUseCase(bookings *stubBookingRepo, schedule *stubScheduleRepo, serviceSlots *stubServiceSlotRepo, queue *stubQueueRepo, assignments *stubAssignmentRepo, now time.Time) *UseCase {
	uc := NewUseCase(bookings, schedule, serviceSlots, queue, assignments, stubTxManager{}, &stubCacheInvalidator{}, nopLogger{})
	uc.timeProvider = fixedTimeProvider{now: now}
	return uc
}

func TestExecute_ReleasesBookedSlot(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	bookings := newStubBookingRepo(&domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed})
	bookingID := int64(1)
	schedule := &stubScheduleRepo{
		activeSlot: &domain.BaySchedule{
			ID:        400,
			BayID:     7,
			Date:      testDate(),
			StartTime: "10:00",
			EndTime:   "11:00",
			Status:    domain.SlotStatusBooked,
			BookingID: &bookingID,
		},
	}

	uc := newTestUseCase(bookings, schedule, &stubServiceSlotRepo{}, &stubQueueRepo{}, &stubAssignmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, Reason: "client request"})

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, resp.Status)
	require.NotNil(t, resp.ReleasedSlotID)
	assert.Equal(t, int64(400), *resp.ReleasedSlotID)
	assert.Equal(t, domain.SlotStatusAvailable, schedule.updated.Status)
	assert.Nil(t, schedule.updated.BookingID)
	assert.Equal(t, domain.BookingStatusCancelled, bookings.cancelled[1])
	assert.Equal(t, "client request", bookings.reasons[1])
}

func TestExecute_NoShowTargetsNoShowStatus(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	bookings := newStubBookingRepo(&domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed})

	uc := newTestUseCase(bookings, &stubScheduleRepo{}, &stubServiceSlotRepo{}, &stubQueueRepo{}, &stubAssignmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, Reason: "did not arrive", NoShow: true})

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusNoShow, resp.Status)
	assert.Equal(t, domain.BookingStatusNoShow, bookings.cancelled[1])
}

func TestExecute_InProgressSlotClosedNotReleased(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)
	bookings := newStubBookingRepo(&domain.Booking{ID: 1, Status: domain.BookingStatusInProgress})
	bookingID := int64(1)
	startedAt := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	schedule := &stubScheduleRepo{
		activeSlot: &domain.BaySchedule{
			ID:            400,
			BayID:         7,
			Date:          testDate(),
			StartTime:     "10:00",
			EndTime:       "11:00",
			Status:        domain.SlotStatusInProgress,
			BookingID:     &bookingID,
			ActualStartAt: &startedAt,
		},
	}

	uc := newTestUseCase(bookings, schedule, &stubServiceSlotRepo{}, &stubQueueRepo{}, &stubAssignmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, Reason: "emergency stop"})

	require.NoError(t, err)
	assert.Nil(t, resp.ReleasedSlotID, "in-progress slot is closed, not put back")
	assert.Equal(t, domain.SlotStatusCompleted, schedule.updated.Status)
	require.NotNil(t, schedule.updated.ActualEndAt)
	assert.Equal(t, now, *schedule.updated.ActualEndAt)
	require.NotNil(t, schedule.updated.CancellationReason)
	assert.Equal(t, "emergency stop", *schedule.updated.CancellationReason)
}

func TestExecute_DequeuesAndRenumbers(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	bookings := newStubBookingRepo(
		&domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed},
		&domain.Booking{ID: 2, Status: domain.BookingStatusConfirmed, EstimatedDurationMinutes: 30},
		&domain.Booking{ID: 3, Status: domain.BookingStatusConfirmed, EstimatedDurationMinutes: 60},
	)

	removed := queuedEntry(20, 2, 1, now.Add(30*time.Minute))
	queue := &stubQueueRepo{
		byBooking: []*domain.BayQueueEntry{removed},
		byBay: []*domain.BayQueueEntry{
			queuedEntry(19, 1, 2, now),
			removed,
			queuedEntry(21, 3, 3, now.Add(time.Hour)),
		},
	}

	uc := newTestUseCase(bookings, &stubScheduleRepo{}, &stubServiceSlotRepo{}, queue, &stubAssignmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, Reason: "client request"})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.DequeuedEntries)
	assert.Equal(t, []int64{20}, queue.deactivated)

	// entry 21 moved 3 -> 2 and restarts from the removed entry's estimate
	require.NotEmpty(t, queue.persisted)
	tail := queue.persisted[len(queue.persisted)-1]
	assert.Equal(t, int64(21), tail.ID)
	assert.Equal(t, 2, tail.Position)
	require.NotNil(t, tail.EstimatedStartAt)
	assert.Equal(t, now.Add(30*time.Minute), *tail.EstimatedStartAt)
	assert.Equal(t, now.Add(30*time.Minute).Add(time.Hour), *tail.EstimatedEndAt)
}

func TestExecute_InvalidatesTouchedBays(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	bookings := newStubBookingRepo(&domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed})
	bookingID := int64(1)
	schedule := &stubScheduleRepo{
		activeSlot: &domain.BaySchedule{
			ID:        400,
			BayID:     5,
			Date:      testDate(),
			StartTime: "10:00",
			EndTime:   "11:00",
			Status:    domain.SlotStatusBooked,
			BookingID: &bookingID,
		},
	}
	removed := queuedEntry(20, 1, 1, now.Add(30*time.Minute))
	queue := &stubQueueRepo{
		byBooking: []*domain.BayQueueEntry{removed},
		byBay:     []*domain.BayQueueEntry{removed},
	}

	uc := newTestUseCase(bookings, schedule, &stubServiceSlotRepo{}, queue, &stubAssignmentRepo{}, now)
	inv := &stubCacheInvalidator{}
	uc.cache = inv

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, Reason: "client request"})

	require.NoError(t, err)
	// both the released grid slot's bay and the dequeued entry's bay go stale
	assert.Equal(t, []int64{5, 7}, inv.invalidated)
}

func TestExecute_CancelsActiveAssignments(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	bookings := newStubBookingRepo(&domain.Booking{ID: 1, Status: domain.BookingStatusCheckedIn})
	assignments := &stubAssignmentRepo{
		assignments: []*domain.BookingAssignment{
			{ID: 31, BookingID: 1, Status: domain.AssignmentStatusAssigned},
			{ID: 32, BookingID: 1, Status: domain.AssignmentStatusCompleted},
		},
	}

	uc := newTestUseCase(bookings, &stubScheduleRepo{}, &stubServiceSlotRepo{}, &stubQueueRepo{}, assignments, now)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, Reason: "client request"})

	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentStatusCancelled, assignments.statuses[31])
	_, touched := assignments.statuses[32]
	assert.False(t, touched)
}

func TestExecute_RepeatCancellationIsIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	bookings := newStubBookingRepo(&domain.Booking{ID: 1, Status: domain.BookingStatusCancelled})

	uc := newTestUseCase(bookings, &stubScheduleRepo{}, &stubServiceSlotRepo{}, &stubQueueRepo{}, &stubAssignmentRepo{}, now)
	inv := &stubCacheInvalidator{}
	uc.cache = inv

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, Reason: "client request"})

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, resp.Status)
	_, touched := bookings.cancelled[1]
	assert.False(t, touched, "already-cancelled booking must not be re-cancelled")
	assert.Empty(t, inv.invalidated)
}

func TestExecute_CompletedBookingRejected(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	bookings := newStubBookingRepo(&domain.Booking{ID: 1, Status: domain.BookingStatusCompleted})

	uc := newTestUseCase(bookings, &stubScheduleRepo{}, &stubServiceSlotRepo{}, &stubQueueRepo{}, &stubAssignmentRepo{}, now)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, Reason: "client request"})

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestExecute_ReasonRequired(t *testing.T) {
	uc := newTestUseCase(newStubBookingRepo(), &stubScheduleRepo{}, &stubServiceSlotRepo{}, &stubQueueRepo{}, &stubAssignmentRepo{}, time.Now())

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ReasonTooLongRejected(t *testing.T) {
	uc := newTestUseCase(newStubBookingRepo(), &stubScheduleRepo{}, &stubServiceSlotRepo{}, &stubQueueRepo{}, &stubAssignmentRepo{}, time.Now())

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 1,
		Reason:    strings.Repeat("a", domain.MaxCancellationReasonLength+1),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
