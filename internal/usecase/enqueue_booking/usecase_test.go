package enqueue_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	bayRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bay"
	queueRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bayqueue"
	bookingRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/booking"
)

type stubBookingRepo struct {
	booking *domain.Booking
}

func (s *stubBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return s.booking, nil
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

type stubQueueRepo struct {
	entries  []*domain.BayQueueEntry
	existing *domain.BayQueueEntry
	created  *domain.BayQueueEntry
}

func (s *stubQueueRepo) Create(_ context.Context, entry *domain.BayQueueEntry) (*domain.BayQueueEntry, error) {
	entry.ID = 900
	s.created = entry
	return entry, nil
}

func (s *stubQueueRepo) GetActiveByBayAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.BayQueueEntry, error) {
	return s.entries, nil
}

func (s *stubQueueRepo) GetActiveByBayAndBooking(_ context.Context, _, _ int64) (*domain.BayQueueEntry, error) {
	if s.existing == nil {
		return nil, queueRepo.ErrEntryNotFound
	}
	return s.existing, nil
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

func activeEntry(id int64, position int, estimatedEnd time.Time) *domain.BayQueueEntry {
	return &domain.BayQueueEntry{
		ID:             id,
		BayID:          7,
		BookingID:      int64(100 + position),
		Position:       position,
		QueueDate:      testDate(),
		EstimatedEndAt: &estimatedEnd,
		IsActive:       true,
	}
}

func newTestUseCase(bookings *stubBookingRepo, bays *stubBayRepo, queue *stubQueueRepo, now time.Time) *UseCase {
	uc := NewUseCase(bookings, bays, queue, stubTxManager{}, &stubCacheInvalidator{}, nopLogger{})
	uc.timeProvider = fixedTimeProvider{now: now}
	return uc
}

func TestExecute_AppendsToTail(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	lastEnd := now.Add(40 * time.Minute)
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusCheckedIn, EstimatedDurationMinutes: 45}}
	bays := &stubBayRepo{bay: &domain.ServiceBay{ID: 7, State: domain.BayStateActive}}
	queue := &stubQueueRepo{
		entries: []*domain.BayQueueEntry{
			activeEntry(10, 1, now.Add(20*time.Minute)),
			activeEntry(11, 2, lastEnd),
		},
	}

	uc := newTestUseCase(bookings, bays, queue, now)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, BayID: 7, Date: testDate()})

	require.NoError(t, err)
	assert.Equal(t, 3, resp.Position)
	require.NotNil(t, resp.EstimatedStartAt)
	assert.Equal(t, lastEnd, *resp.EstimatedStartAt, "tail entry starts after the previous estimate")
	assert.Equal(t, lastEnd.Add(45*time.Minute), *resp.EstimatedEndAt)
}

func TestExecute_EmptyQueueStartsNow(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed}}
	bays := &stubBayRepo{bay: &domain.ServiceBay{ID: 7, State: domain.BayStateActive}}
	queue := &stubQueueRepo{}

	uc := newTestUseCase(bookings, bays, queue, now)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, BayID: 7, Date: testDate()})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Position)
	assert.Equal(t, now, *resp.EstimatedStartAt)
	// no duration estimate on the booking: fallback applies
	assert.Equal(t, now.Add(time.Duration(domain.DefaultQueueEstimateMinutes)*time.Minute), *resp.EstimatedEndAt)
}

func TestExecute_InvalidatesBaySnapshots(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed}}
	bays := &stubBayRepo{bay: &domain.ServiceBay{ID: 7, State: domain.BayStateActive}}

	uc := newTestUseCase(bookings, bays, &stubQueueRepo{}, now)
	inv := &stubCacheInvalidator{}
	uc.cache = inv

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, BayID: 7, Date: testDate()})

	require.NoError(t, err)
	assert.Equal(t, []int64{7}, inv.invalidated)
}

func TestExecute_DuplicateEntryRejected(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed}}
	bays := &stubBayRepo{bay: &domain.ServiceBay{ID: 7, State: domain.BayStateActive}}
	queue := &stubQueueRepo{existing: activeEntry(10, 1, now)}

	uc := newTestUseCase(bookings, bays, queue, now)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, BayID: 7, Date: testDate()})

	assert.ErrorIs(t, err, ErrAlreadyQueued)
}

func TestExecute_QueueIntegrityViolation(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed}}
	bays := &stubBayRepo{bay: &domain.ServiceBay{ID: 7, State: domain.BayStateActive}}
	queue := &stubQueueRepo{
		entries: []*domain.BayQueueEntry{
			activeEntry(10, 1, now),
			activeEntry(11, 3, now), // gap at 2
		},
	}

	uc := newTestUseCase(bookings, bays, queue, now)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, BayID: 7, Date: testDate()})

	assert.ErrorIs(t, err, domain.ErrQueueIntegrity)
}

func TestExecute_TerminalBookingRejected(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusCompleted}}
	bays := &stubBayRepo{bay: &domain.ServiceBay{ID: 7, State: domain.BayStateActive}}

	uc := newTestUseCase(bookings, bays, &stubQueueRepo{}, now)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, BayID: 7, Date: testDate()})

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestExecute_BayNotOperable(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed}}
	bays := &stubBayRepo{bay: &domain.ServiceBay{ID: 7, State: domain.BayStateClosed}}

	uc := newTestUseCase(bookings, bays, &stubQueueRepo{}, now)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, BayID: 7, Date: testDate()})

	assert.ErrorIs(t, err, ErrBayNotOperable)
}
