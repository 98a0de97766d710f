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

	_, err = NewTimeStringFromString("9:30")
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	_, err = NewTimeStringFromString("")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestNewTimeStringFromMinutes(t *testing.T) {
	ts, err := NewTimeStringFromMinutes(0)
	require.NoError(t, err)
	assert.Equal(t, "00:00", ts.String())

	ts, err = NewTimeStringFromMinutes(17*60 + 30)
	require.NoError(t, err)
	assert.Equal(t, "17:30", ts.String())

	_, err = NewTimeStringFromMinutes(24 * 60)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)

	_, err = NewTimeStringFromMinutes(-1)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Minutes(t *testing.T) {
	ts := TimeString("10:15")

	minutes, err := ts.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 615, minutes)

	_, err = TimeString("bad").Minutes()
	assert.Error(t, err)
}

func TestTimeString_AddMinutes(t *testing.T) {
	end, err := TimeString("10:00").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, "11:30", end.String())

	// Выход за конец суток - ошибка, а не перенос на следующий день
	_, err = TimeString("23:30").AddMinutes(60)
	assert.Error(t, err)
}

func TestTimeString_Comparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("18:00").IsAfter("09:00"))

	// Некорректные значения не сравниваются
	assert.False(t, TimeString("bad").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsAfter("bad"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// time.Time от драйвера
	require.NoError(t, ts.Scan(time.Date(2026, 9, 1, 14, 45, 0, 0, time.UTC)))
	assert.Equal(t, "14:45", ts.String())

	// Строка HH:MM:SS из колонки TIME
	require.NoError(t, ts.Scan("09:30:00"))
	assert.Equal(t, "09:30", ts.String())

	require.NoError(t, ts.Scan([]byte("17:00:00")))
	assert.Equal(t, "17:00", ts.String())
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("12:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "12:00", v)

	_, err = TimeString("nope").Value()
	assert.Error(t, err)
}
