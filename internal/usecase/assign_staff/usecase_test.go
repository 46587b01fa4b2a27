package assign_staff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
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

type stubAssignmentRepo struct {
	activeByStaff map[int64][]*domain.BookingAssignment
	load          map[int64]int
	created       *domain.BookingAssignment
}

func (s *stubAssignmentRepo) Create(_ context.Context, a *domain.BookingAssignment) (*domain.BookingAssignment, error) {
	a.ID = 600
	s.created = a
	return a, nil
}

func (s *stubAssignmentRepo) GetActiveByStaff(_ context.Context, staffID int64) ([]*domain.BookingAssignment, error) {
	return s.activeByStaff[staffID], nil
}

func (s *stubAssignmentRepo) CountActiveInWindow(_ context.Context, _ []int64, _, _ time.Time) (map[int64]int, error) {
	return s.load, nil
}

type stubTxManager struct{}

func (stubTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func windowAt(startHour, endHour int) (time.Time, time.Time) {
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	return day.Add(time.Duration(startHour) * time.Hour), day.Add(time.Duration(endHour) * time.Hour)
}

func activeAssignment(staffID int64, startHour, endHour int) *domain.BookingAssignment {
	from, to := windowAt(startHour, endHour)
	return &domain.BookingAssignment{
		ID:           50,
		BookingID:    9,
		StaffID:      staffID,
		Role:         domain.RoleAssistant,
		AssignedFrom: from,
		AssignedTo:   to,
		Status:       domain.AssignmentStatusAssigned,
	}
}

func TestExecute_AssignsExplicitStaff(t *testing.T) {
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed}}
	assignments := &stubAssignmentRepo{}
	uc := NewUseCase(bookings, assignments, stubTxManager{}, nopLogger{})

	from, to := windowAt(10, 12)
	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:    1,
		StaffID:      5,
		Role:         domain.RoleLeadTechnician,
		AssignedFrom: from,
		AssignedTo:   to,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(600), resp.AssignmentID)
	assert.Equal(t, int64(5), resp.StaffID)
	assert.Equal(t, domain.AssignmentStatusAssigned, resp.Status)
	require.NotNil(t, assignments.created)
	assert.Equal(t, domain.RoleLeadTechnician, assignments.created.Role)
}

func TestExecute_StaffWindowConflict(t *testing.T) {
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed}}
	assignments := &stubAssignmentRepo{
		activeByStaff: map[int64][]*domain.BookingAssignment{
			5: {activeAssignment(5, 11, 13)},
		},
	}
	uc := NewUseCase(bookings, assignments, stubTxManager{}, nopLogger{})

	from, to := windowAt(10, 12)
	_, err := uc.Execute(context.Background(), &Request{
		BookingID:    1,
		StaffID:      5,
		Role:         domain.RoleLeadTechnician,
		AssignedFrom: from,
		AssignedTo:   to,
	})

	assert.ErrorIs(t, err, ErrStaffConflict)
}

func TestExecute_TouchingWindowsAllowed(t *testing.T) {
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed}}
	assignments := &stubAssignmentRepo{
		activeByStaff: map[int64][]*domain.BookingAssignment{
			5: {activeAssignment(5, 8, 10)},
		},
	}
	uc := NewUseCase(bookings, assignments, stubTxManager{}, nopLogger{})

	from, to := windowAt(10, 12)
	_, err := uc.Execute(context.Background(), &Request{
		BookingID:    1,
		StaffID:      5,
		Role:         domain.RoleLeadTechnician,
		AssignedFrom: from,
		AssignedTo:   to,
	})

	assert.NoError(t, err)
}

func TestExecute_AutoPickLeastLoaded(t *testing.T) {
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed}}
	assignments := &stubAssignmentRepo{
		load: map[int64]int{7: 2, 3: 1, 9: 0},
	}
	uc := NewUseCase(bookings, assignments, stubTxManager{}, nopLogger{})

	from, to := windowAt(10, 12)
	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:         1,
		Role:              domain.RoleAssistant,
		AssignedFrom:      from,
		AssignedTo:        to,
		CandidateStaffIDs: []int64{9, 7, 3},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(9), resp.StaffID)
}

func TestExecute_AutoPickPrefersLowestFreeID(t *testing.T) {
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed}}
	assignments := &stubAssignmentRepo{
		load: map[int64]int{},
	}
	uc := NewUseCase(bookings, assignments, stubTxManager{}, nopLogger{})

	from, to := windowAt(10, 12)
	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:         1,
		Role:              domain.RoleAssistant,
		AssignedFrom:      from,
		AssignedTo:        to,
		CandidateStaffIDs: []int64{12, 4, 8},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.StaffID)
}

func TestExecute_NoFreeCandidates(t *testing.T) {
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed}}
	assignments := &stubAssignmentRepo{
		load: map[int64]int{4: 1, 8: 3},
	}
	uc := NewUseCase(bookings, assignments, stubTxManager{}, nopLogger{})

	from, to := windowAt(10, 12)
	_, err := uc.Execute(context.Background(), &Request{
		BookingID:         1,
		Role:              domain.RoleAssistant,
		AssignedFrom:      from,
		AssignedTo:        to,
		CandidateStaffIDs: []int64{4, 8},
	})

	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestExecute_TerminalBookingRejected(t *testing.T) {
	bookings := &stubBookingRepo{booking: &domain.Booking{ID: 1, Status: domain.BookingStatusNoShow}}
	uc := NewUseCase(bookings, &stubAssignmentRepo{}, stubTxManager{}, nopLogger{})

	from, to := windowAt(10, 12)
	_, err := uc.Execute(context.Background(), &Request{
		BookingID:    1,
		StaffID:      5,
		Role:         domain.RoleAssistant,
		AssignedFrom: from,
		AssignedTo:   to,
	})

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc := NewUseCase(&stubBookingRepo{}, &stubAssignmentRepo{}, stubTxManager{}, nopLogger{})
	from, to := windowAt(10, 12)

	tests := []struct {
		name string
		req  *Request
	}{
		{
			name: "unknown role",
			req:  &Request{BookingID: 1, StaffID: 5, Role: "janitor", AssignedFrom: from, AssignedTo: to},
		},
		{
			name: "no staff and no candidates",
			req:  &Request{BookingID: 1, Role: domain.RoleAssistant, AssignedFrom: from, AssignedTo: to},
		},
		{
			name: "missing window",
			req:  &Request{BookingID: 1, StaffID: 5, Role: domain.RoleAssistant},
		},
		{
			name: "inverted window",
			req:  &Request{BookingID: 1, StaffID: 5, Role: domain.RoleAssistant, AssignedFrom: to, AssignedTo: from},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
