package reserve_slot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	bayRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bay"
	bookingRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bayschedule"
	serviceSlotRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/serviceslot"
	"github.com/m04kA/VSC-SchedulingService/pkg/types"
)

type stubBookingRepo struct {
	booking       *domain.Booking
	updatedStatus *domain.BookingStatus
	scheduleSet   bool
}

func (s *stubBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *s.booking
	return &copied, nil
}

func (s *stubBookingRepo) UpdateSchedule(_ context.Context, _ int64, _ *int64, _, _ *time.Time) error {
	s.scheduleSet = true
	return nil
}

func (s *stubBookingRepo) UpdateStatus(_ context.Context, _ int64, status domain.BookingStatus) error {
	s.updatedStatus = &status
	return nil
}

type stubBayRepo struct {
	bay *domain.ServiceBay
}

func (s *stubBayRepo) GetByID(_ context.Context, id int64) (*domain.ServiceBay, error) {
	if s.bay == nil || s.bay.ID != id {
		return nil, bayRepo.ErrBayNotFound
	}
	return s.bay, nil
}

type stubScheduleRepo struct {
	committed  []*domain.BaySchedule
	activeSlot *domain.BaySchedule
	available  *domain.BaySchedule
	created    *domain.BaySchedule
	updated    *domain.BaySchedule
}

func (s *stubScheduleRepo) GetByBayAndDate(_ context.Context, _ int64, _ time.Time, _ []domain.SlotStatus) ([]*domain.BaySchedule, error) {
	return s.committed, nil
}

func (s *stubScheduleRepo) GetActiveByBookingID(_ context.Context, _ int64) (*domain.BaySchedule, error) {
	if s.activeSlot == nil {
		return nil, scheduleRepo.ErrSlotNotFound
	}
	return s.activeSlot, nil
}

func (s *stubScheduleRepo) FindAvailableByWindow(_ context.Context, _ int64, _ time.Time, _, _ types.TimeString) (*domain.BaySchedule, error) {
	if s.available == nil {
		return nil, scheduleRepo.ErrSlotNotFound
	}
	return s.available, nil
}

func (s *stubScheduleRepo) Create(_ context.Context, slot *domain.BaySchedule) (*domain.BaySchedule, error) {
	slot.ID = 501
	s.created = slot
	return slot, nil
}

func (s *stubScheduleRepo) Update(_ context.Context, slot *domain.BaySchedule) error {
	s.updated = slot
	return nil
}

type stubServiceSlotRepo struct{}

func (s *stubServiceSlotRepo) GetByID(_ context.Context, _ int64) (*domain.ServiceSlot, error) {
	return nil, serviceSlotRepo.ErrSlotNotFound
}

func (s *stubServiceSlotRepo) Update(_ context.Context, _ *domain.ServiceSlot) error {
	return nil
}

type stubTxManager struct{}

func (stubTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

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

func committedSlot(id int64, start, end types.TimeString) *domain.BaySchedule {
	bookingID := int64(99)
	return &domain.BaySchedule{
		ID:        id,
		BayID:     7,
		Date:      testDate(),
		StartTime: start,
		EndTime:   end,
		Status:    domain.SlotStatusBooked,
		BookingID: &bookingID,
	}
}

func newTestUseCase(bookings *stubBookingRepo, bays *stubBayRepo, schedule *stubScheduleRepo) *UseCase {
	return NewUseCase(bookings, bays, schedule, &stubServiceSlotRepo{}, stubTxManager{}, &stubCacheInvalidator{}, nopLogger{})
}

func TestExecute_ReservesAdHocSlot(t *testing.T) {
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusPending}}
	bays := &stubBayRepo{bay: &domain.ServiceBay{ID: 7, State: domain.BayStateActive}}
	schedule := &stubScheduleRepo{}

	uc := newTestUseCase(bookings, bays, schedule)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: 1,
		BayID:     7,
		Date:      testDate(),
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("11:00"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(501), resp.SlotID)
	assert.Equal(t, string(domain.SlotStatusBooked), resp.Status)
	require.NotNil(t, schedule.created)
	assert.True(t, bookings.scheduleSet)
	require.NotNil(t, bookings.updatedStatus)
	assert.Equal(t, domain.BookingStatusConfirmed, *bookings.updatedStatus)
}

func TestExecute_InvalidatesBaySnapshots(t *testing.T) {
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusPending}}
	bays := &stubBayRepo{bay: &domain.ServiceBay{ID: 7, State: domain.BayStateActive}}
	schedule := &stubScheduleRepo{}

	uc := newTestUseCase(bookings, bays, schedule)
	inv := &stubCacheInvalidator{}
	uc.cache = inv

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 1,
		BayID:     7,
		Date:      testDate(),
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("11:00"),
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{7}, inv.invalidated)
}

func TestExecute_NoInvalidationOnFailure(t *testing.T) {
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusCompleted}}
	bays := &stubBayRepo{bay: &domain.ServiceBay{ID: 7, State: domain.BayStateActive}}

	uc := newTestUseCase(bookings, bays, &stubScheduleRepo{})
	inv := &stubCacheInvalidator{}
	uc.cache = inv

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 1,
		BayID:     7,
		Date:      testDate(),
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("11:00"),
	})

	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Empty(t, inv.invalidated, "failed reservation must keep snapshots intact")
}

func TestExecute_ReusesAvailableSlot(t *testing.T) {
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed}}
	bays := &stubBayRepo{bay: &domain.ServiceBay{ID: 7, State: domain.BayStateActive}}
	schedule := &stubScheduleRepo{
		available: &domain.BaySchedule{
			ID:        300,
			BayID:     7,
			Date:      testDate(),
			StartTime: types.TimeString("10:00"),
			EndTime:   types.TimeString("11:00"),
			Status:    domain.SlotStatusAvailable,
		},
	}

	uc := newTestUseCase(bookings, bays, schedule)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: 1,
		BayID:     7,
		Date:      testDate(),
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("11:00"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(300), resp.SlotID)
	require.NotNil(t, schedule.updated)
	require.NotNil(t, schedule.updated.BookingID)
	assert.Equal(t, int64(1), *schedule.updated.BookingID)
	assert.Nil(t, schedule.created)
	assert.Nil(t, bookings.updatedStatus, "CONFIRMED booking keeps its status")
}

func TestExecute_ConflictWithCommittedSlot(t *testing.T) {
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusPending}}
	bays := &stubBayRepo{bay: &domain.ServiceBay{ID: 7, State: domain.BayStateActive}}
	schedule := &stubScheduleRepo{
		committed: []*domain.BaySchedule{
			committedSlot(200, "09:30", "10:30"),
		},
	}

	uc := newTestUseCase(bookings, bays, schedule)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 1,
		BayID:     7,
		Date:      testDate(),
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("11:00"),
	})

	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_TouchingWindowsDoNotConflict(t *testing.T) {
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusPending}}
	bays := &stubBayRepo{bay: &domain.ServiceBay{ID: 7, State: domain.BayStateActive}}
	schedule := &stubScheduleRepo{
		committed: []*domain.BaySchedule{
			committedSlot(200, "09:00", "10:00"),
		},
	}

	uc := newTestUseCase(bookings, bays, schedule)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 1,
		BayID:     7,
		Date:      testDate(),
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("11:00"),
	})

	assert.NoError(t, err)
}

func TestExecute_AlreadyReserved(t *testing.T) {
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed}}
	bays := &stubBayRepo{bay: &domain.ServiceBay{ID: 7, State: domain.BayStateActive}}
	schedule := &stubScheduleRepo{
		activeSlot: committedSlot(200, "09:00", "10:00"),
	}

	uc := newTestUseCase(bookings, bays, schedule)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 1,
		BayID:     7,
		Date:      testDate(),
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("11:00"),
	})

	assert.ErrorIs(t, err, ErrAlreadyReserved)
}

func TestExecute_BayNotOperable(t *testing.T) {
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusPending}}
	bays := &stubBayRepo{bay: &domain.ServiceBay{ID: 7, State: domain.BayStateMaintenance}}

	uc := newTestUseCase(bookings, bays, &stubScheduleRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 1,
		BayID:     7,
		Date:      testDate(),
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("11:00"),
	})

	assert.ErrorIs(t, err, ErrBayNotOperable)
}

func TestExecute_InvalidWindow(t *testing.T) {
	uc := newTestUseCase(&stubBookingRepo{}, &stubBayRepo{}, &stubScheduleRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 1,
		BayID:     7,
		Date:      testDate(),
		StartTime: types.TimeString("11:00"),
		EndTime:   types.TimeString("10:00"),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_TerminalBooking(t *testing.T) {
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusCancelled}}
	bays := &stubBayRepo{bay: &domain.ServiceBay{ID: 7, State: domain.BayStateActive}}

	uc := newTestUseCase(bookings, bays, &stubScheduleRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 1,
		BayID:     7,
		Date:      testDate(),
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("11:00"),
	})

	assert.ErrorIs(t, err, ErrInvalidState)
}
