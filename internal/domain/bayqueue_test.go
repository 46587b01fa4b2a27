package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queueEntry(id int64, position int, bookingID int64) *BayQueueEntry {
	return &BayQueueEntry{
		ID:        id,
		BayID:     1,
		BookingID: bookingID,
		Position:  position,
		IsActive:  true,
	}
}

func TestValidateQueueContiguity(t *testing.T) {
	tests := []struct {
		name    string
		entries []*BayQueueEntry
		wantErr bool
	}{
		{
			name:    "empty queue",
			entries: nil,
			wantErr: false,
		},
		{
			name: "contiguous out of order",
			entries: []*BayQueueEntry{
				queueEntry(10, 3, 100),
				queueEntry(11, 1, 101),
				queueEntry(12, 2, 102),
			},
			wantErr: false,
		},
		{
			name: "inactive entries ignored",
			entries: []*BayQueueEntry{
				queueEntry(10, 1, 100),
				{ID: 11, Position: 7, BookingID: 101, IsActive: false},
			},
			wantErr: false,
		},
		{
			name: "gap",
			entries: []*BayQueueEntry{
				queueEntry(10, 1, 100),
				queueEntry(11, 3, 101),
			},
			wantErr: true,
		},
		{
			name: "duplicate position",
			entries: []*BayQueueEntry{
				queueEntry(10, 1, 100),
				queueEntry(11, 1, 101),
			},
			wantErr: true,
		},
		{
			name: "non-positive position",
			entries: []*BayQueueEntry{
				queueEntry(10, 0, 100),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQueueContiguity(tt.entries)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrQueueIntegrity)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestShiftAfterRemoval(t *testing.T) {
	entries := []*BayQueueEntry{
		queueEntry(10, 1, 100),
		queueEntry(11, 3, 101),
		queueEntry(12, 4, 102),
	}

	shifted := ShiftAfterRemoval(entries, 2)

	require.Len(t, shifted, 2)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, 2, entries[1].Position)
	assert.Equal(t, 3, entries[2].Position)
}

func TestShiftAfterRemoval_SkipsInactive(t *testing.T) {
	inactive := queueEntry(11, 5, 101)
	inactive.IsActive = false
	entries := []*BayQueueEntry{
		queueEntry(10, 2, 100),
		inactive,
	}

	shifted := ShiftAfterRemoval(entries, 1)

	require.Len(t, shifted, 1)
	assert.Equal(t, int64(10), shifted[0].ID)
	assert.Equal(t, 5, inactive.Position)
}

func TestPropagateQueueEstimates(t *testing.T) {
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	entries := []*BayQueueEntry{
		queueEntry(12, 3, 102),
		queueEntry(10, 1, 100),
		queueEntry(11, 2, 101),
	}
	durations := map[int64]int{
		100: 30,
		101: 45,
		// booking 102 has no estimate, falls back to the default
	}

	PropagateQueueEstimates(entries, 1, base, durations)

	// entries are re-sorted by position
	require.NotNil(t, entries[0].EstimatedStartAt)
	assert.Equal(t, base, *entries[0].EstimatedStartAt)
	assert.Equal(t, base.Add(30*time.Minute), *entries[0].EstimatedEndAt)

	assert.Equal(t, base.Add(30*time.Minute), *entries[1].EstimatedStartAt)
	assert.Equal(t, base.Add(75*time.Minute), *entries[1].EstimatedEndAt)

	assert.Equal(t, base.Add(75*time.Minute), *entries[2].EstimatedStartAt)
	assert.Equal(t, base.Add(75*time.Minute).Add(time.Duration(DefaultQueueEstimateMinutes)*time.Minute), *entries[2].EstimatedEndAt)
}

func TestPropagateQueueEstimates_FromMiddle(t *testing.T) {
	base := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	first := queueEntry(10, 1, 100)
	untouched := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	first.EstimatedStartAt = &untouched

	entries := []*BayQueueEntry{
		first,
		queueEntry(11, 2, 101),
		queueEntry(12, 3, 102),
	}
	durations := map[int64]int{101: 60, 102: 30}

	PropagateQueueEstimates(entries, 2, base, durations)

	assert.Equal(t, untouched, *entries[0].EstimatedStartAt, "entries before fromPosition must stay untouched")
	assert.Equal(t, base, *entries[1].EstimatedStartAt)
	assert.Equal(t, base.Add(60*time.Minute), *entries[2].EstimatedStartAt)
}
