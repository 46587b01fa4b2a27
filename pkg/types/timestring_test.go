package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", ts.String())

	for _, bad := range []string{"9:30:00", "25:00", "09:61", "morning", ""} {
		_, err := NewTimeStringFromString(bad)
		assert.ErrorIs(t, err, ErrInvalidTimeString, "input %q", bad)
	}
}

func TestTimeString_Minutes(t *testing.T) {
	assert.Equal(t, 0, TimeString("00:00").Minutes())
	assert.Equal(t, 570, TimeString("09:30").Minutes())
	assert.Equal(t, 1439, TimeString("23:59").Minutes())
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts, err := TimeString("09:30").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), ts)

	ts, err = TimeString("10:00").AddMinutes(-30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), ts)

	_, err = TimeString("23:30").AddMinutes(45)
	assert.ErrorIs(t, err, ErrInvalidTimeString, "past midnight")

	_, err = TimeString("00:10").AddMinutes(-20)
	assert.ErrorIs(t, err, ErrInvalidTimeString, "before midnight")
}

func TestTimeString_SubAndOrdering(t *testing.T) {
	assert.Equal(t, 90, TimeString("11:00").Sub(TimeString("09:30")))
	assert.Equal(t, -90, TimeString("09:30").Sub(TimeString("11:00")))

	assert.True(t, TimeString("09:30").IsBefore(TimeString("11:00")))
	assert.True(t, TimeString("11:00").IsAfter(TimeString("09:30")))
	assert.False(t, TimeString("09:30").IsBefore(TimeString("09:30")))
}

func TestTimeString_At(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	date := time.Date(2025, 6, 2, 18, 45, 12, 0, loc)
	bound := TimeString("09:30").At(date)

	assert.Equal(t, time.Date(2025, 6, 2, 9, 30, 0, 0, loc), bound)
}

func TestNewTimeString(t *testing.T) {
	at := time.Date(2025, 6, 2, 14, 5, 59, 0, time.UTC)
	assert.Equal(t, TimeString("14:05"), NewTimeString(at))
}
