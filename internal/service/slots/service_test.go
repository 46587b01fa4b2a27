package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	slotRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/serviceslot"
	"github.com/m04kA/VSC-SchedulingService/internal/service/slots/models"
	"github.com/m04kA/VSC-SchedulingService/pkg/types"
)

type stubSlotRepo struct {
	slot    *domain.ServiceSlot
	created *domain.ServiceSlot
	updated *domain.ServiceSlot
}

func (s *stubSlotRepo) Create(_ context.Context, slot *domain.ServiceSlot) (*domain.ServiceSlot, error) {
	created := *slot
	created.ID = 300
	s.created = &created
	return &created, nil
}

func (s *stubSlotRepo) GetByID(_ context.Context, _ int64) (*domain.ServiceSlot, error) {
	if s.slot == nil {
		return nil, slotRepo.ErrSlotNotFound
	}
	return s.slot, nil
}

func (s *stubSlotRepo) Update(_ context.Context, slot *domain.ServiceSlot) error {
	s.updated = slot
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testDate() time.Time {
	return time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
}

func TestCreate_PublishesAvailableSlot(t *testing.T) {
	repo := &stubSlotRepo{}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Create(context.Background(), &models.CreateSlotRequest{
		BranchID:  3,
		Date:      testDate(),
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("11:00"),
		Category:  "vip",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(300), resp.ID)
	assert.Equal(t, string(domain.ServiceSlotStatusAvailable), resp.Status)
	assert.Equal(t, string(domain.SlotCategoryVIP), resp.Category)
}

func TestCreate_DefaultsToStandardCategory(t *testing.T) {
	repo := &stubSlotRepo{}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Create(context.Background(), &models.CreateSlotRequest{
		BranchID:  3,
		Date:      testDate(),
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("11:00"),
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.SlotCategoryStandard), resp.Category)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *models.CreateSlotRequest
	}{
		{
			name: "non-positive branch",
			req: &models.CreateSlotRequest{
				BranchID: 0, Date: testDate(),
				StartTime: types.TimeString("10:00"), EndTime: types.TimeString("11:00"),
			},
		},
		{
			name: "zero date",
			req: &models.CreateSlotRequest{
				BranchID:  3,
				StartTime: types.TimeString("10:00"), EndTime: types.TimeString("11:00"),
			},
		},
		{
			name: "inverted window",
			req: &models.CreateSlotRequest{
				BranchID: 3, Date: testDate(),
				StartTime: types.TimeString("11:00"), EndTime: types.TimeString("10:00"),
			},
		},
		{
			name: "unknown category",
			req: &models.CreateSlotRequest{
				BranchID: 3, Date: testDate(),
				StartTime: types.TimeString("10:00"), EndTime: types.TimeString("11:00"),
				Category: "luxury",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&stubSlotRepo{}, nopLogger{})

			_, err := svc.Create(context.Background(), tt.req)

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestClose_WithdrawsSlot(t *testing.T) {
	repo := &stubSlotRepo{
		slot: &domain.ServiceSlot{
			ID: 300, BranchID: 3, Date: testDate(),
			StartTime: "10:00", EndTime: "11:00",
			Category: domain.SlotCategoryStandard,
			Status:   domain.ServiceSlotStatusAvailable,
		},
	}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Close(context.Background(), 300, "оборудование на ремонте")

	require.NoError(t, err)
	assert.Equal(t, string(domain.ServiceSlotStatusClosed), resp.Status)
	require.NotNil(t, resp.CloseReason)
	assert.Equal(t, "оборудование на ремонте", *resp.CloseReason)
	require.NotNil(t, repo.updated)
	assert.Equal(t, domain.ServiceSlotStatusClosed, repo.updated.Status)
}

func TestClose_BookedSlotRejected(t *testing.T) {
	bookingID := int64(1)
	repo := &stubSlotRepo{
		slot: &domain.ServiceSlot{
			ID: 300, BranchID: 3, Date: testDate(),
			StartTime: "10:00", EndTime: "11:00",
			Category:  domain.SlotCategoryStandard,
			Status:    domain.ServiceSlotStatusBooked,
			BookingID: &bookingID,
		},
	}
	svc := NewService(repo, nopLogger{})

	_, err := svc.Close(context.Background(), 300, "оборудование на ремонте")

	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Nil(t, repo.updated)
}

func TestClose_ReasonRequired(t *testing.T) {
	svc := NewService(&stubSlotRepo{}, nopLogger{})

	_, err := svc.Close(context.Background(), 300, "")

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOpen_RestoresClosedSlot(t *testing.T) {
	reason := "оборудование на ремонте"
	repo := &stubSlotRepo{
		slot: &domain.ServiceSlot{
			ID: 300, BranchID: 3, Date: testDate(),
			StartTime: "10:00", EndTime: "11:00",
			Category:    domain.SlotCategoryStandard,
			Status:      domain.ServiceSlotStatusClosed,
			CloseReason: &reason,
		},
	}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Open(context.Background(), 300)

	require.NoError(t, err)
	assert.Equal(t, string(domain.ServiceSlotStatusAvailable), resp.Status)
	assert.Nil(t, resp.CloseReason)
}

func TestOpen_AvailableSlotRejected(t *testing.T) {
	repo := &stubSlotRepo{
		slot: &domain.ServiceSlot{
			ID: 300, BranchID: 3, Date: testDate(),
			StartTime: "10:00", EndTime: "11:00",
			Category: domain.SlotCategoryStandard,
			Status:   domain.ServiceSlotStatusAvailable,
		},
	}
	svc := NewService(repo, nopLogger{})

	_, err := svc.Open(context.Background(), 300)

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestClose_SlotNotFound(t *testing.T) {
	svc := NewService(&stubSlotRepo{}, nopLogger{})

	_, err := svc.Close(context.Background(), 999, "оборудование на ремонте")

	assert.ErrorIs(t, err, ErrSlotNotFound)
}
