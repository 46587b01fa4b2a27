package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInterval(t *testing.T, startHour, startMin, endHour, endMin int) Interval {
	t.Helper()
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	i, err := NewInterval(
		day.Add(time.Duration(startHour)*time.Hour+time.Duration(startMin)*time.Minute),
		day.Add(time.Duration(endHour)*time.Hour+time.Duration(endMin)*time.Minute),
	)
	require.NoError(t, err)
	return i
}

func TestNewInterval_RejectsEmptyAndInverted(t *testing.T) {
	day := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	_, err := NewInterval(day, day)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewInterval(day, day.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{
			name: "partial overlap",
			a:    mustInterval(t, 9, 0, 10, 0),
			b:    mustInterval(t, 9, 30, 10, 30),
			want: true,
		},
		{
			name: "containment",
			a:    mustInterval(t, 9, 0, 12, 0),
			b:    mustInterval(t, 10, 0, 11, 0),
			want: true,
		},
		{
			name: "identical",
			a:    mustInterval(t, 9, 0, 10, 0),
			b:    mustInterval(t, 9, 0, 10, 0),
			want: true,
		},
		{
			name: "touching endpoints do not conflict",
			a:    mustInterval(t, 9, 0, 10, 0),
			b:    mustInterval(t, 10, 0, 11, 0),
			want: false,
		},
		{
			name: "disjoint",
			a:    mustInterval(t, 9, 0, 10, 0),
			b:    mustInterval(t, 14, 0, 15, 0),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestHasConflict(t *testing.T) {
	existing := []Interval{
		mustInterval(t, 9, 0, 10, 0),
		mustInterval(t, 12, 0, 13, 0),
	}

	assert.True(t, HasConflict(mustInterval(t, 9, 30, 10, 30), existing))
	assert.False(t, HasConflict(mustInterval(t, 10, 0, 11, 0), existing))
	assert.False(t, HasConflict(mustInterval(t, 13, 0, 14, 0), existing))
}

func TestFirstConflict(t *testing.T) {
	existing := []Interval{
		mustInterval(t, 9, 0, 10, 0),
		mustInterval(t, 12, 0, 13, 0),
	}

	conflict, found := FirstConflict(mustInterval(t, 12, 30, 13, 30), existing)
	require.True(t, found)
	assert.Equal(t, existing[1], conflict)

	_, found = FirstConflict(mustInterval(t, 15, 0, 16, 0), existing)
	assert.False(t, found)
}
