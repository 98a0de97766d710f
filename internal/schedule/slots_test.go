package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

func window(start, end string) domain.TimeRange {
	return domain.TimeRange{Start: ts(start), End: ts(end)}
}

func slotStrings(slots []types.TimeString) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}

func TestGenerate_FullDay(t *testing.T) {
	futureDate := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	slots := Generate(window("10:00", "13:00"), 30, 60, futureDate, now, 30)

	// Последний слот 12:00: [12:00, 13:00) ещё помещается в окно
	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30", "12:00"}, slotStrings(slots))
}

func TestGenerate_ServiceDoesNotFit(t *testing.T) {
	futureDate := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	slots := Generate(window("10:00", "11:00"), 30, 90, futureDate, now, 30)

	assert.Empty(t, slots, "услуга длиннее окна не даёт ни одного слота")
}

func TestGenerate_SlotEndsExactlyAtClose(t *testing.T) {
	futureDate := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	slots := Generate(window("17:00", "18:00"), 30, 60, futureDate, now, 30)

	// [17:00, 18:00) заканчивается ровно на закрытии - допустимо
	assert.Equal(t, []string{"17:00"}, slotStrings(slots))
}

func TestGenerate_SameDayBufferCutsEarlySlots(t *testing.T) {
	// Сейчас 16:50, буфер 30 минут: слоты раньше 17:20 отбрасываются.
	// Окно 09:00-18:00, услуга 30 минут: выживает только 17:30.
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 16, 50, 0, 0, time.UTC)

	slots := Generate(window("09:00", "18:00"), 30, 30, today, now, 30)

	assert.Equal(t, []string{"17:30"}, slotStrings(slots))
}

func TestGenerate_FutureDateIgnoresBuffer(t *testing.T) {
	tomorrow := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 23, 50, 0, 0, time.UTC)

	slots := Generate(window("09:00", "10:00"), 30, 30, tomorrow, now, 30)

	// Буфер применяется только к сегодняшней дате
	assert.Equal(t, []string{"09:00", "09:30"}, slotStrings(slots))
}

func TestGenerate_PastDate(t *testing.T) {
	yesterday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	slots := Generate(window("09:00", "18:00"), 30, 30, yesterday, now, 30)

	require.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestGenerate_TodayInWesternTimezone(t *testing.T) {
	// Дата запроса парсится в UTC, а "сейчас" идёт в зоне организации.
	// Для зоны с отрицательным смещением это тот же календарный день,
	// и он не должен считаться прошедшим.
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.FixedZone("UTC-8", -8*60*60))

	require.True(t, IsSameDay(today, now))
	require.False(t, IsDateInPast(today, now))

	slots := Generate(window("09:00", "18:00"), 30, 30, today, now, 30)

	// Буфер сегодняшнего дня действует: слоты раньше 10:30 отброшены
	require.NotEmpty(t, slots)
	assert.Equal(t, "10:30", slots[0].String())
}

func TestIsDateInPast_CalendarComponents(t *testing.T) {
	utc := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsDateInPast(utc, time.Date(2026, 9, 2, 0, 30, 0, 0, time.FixedZone("UTC+3", 3*60*60))))
	assert.False(t, IsDateInPast(utc, time.Date(2026, 9, 1, 23, 0, 0, 0, time.FixedZone("UTC-8", -8*60*60))))
	assert.True(t, IsDateInPast(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), utc))
	assert.False(t, IsDateInPast(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), utc))
}

func TestGenerate_Deterministic(t *testing.T) {
	futureDate := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	first := Generate(window("09:00", "18:00"), 15, 45, futureDate, now, 15)
	second := Generate(window("09:00", "18:00"), 15, 45, futureDate, now, 15)

	assert.Equal(t, first, second, "одинаковые входы дают одинаковый результат")
}

func TestGenerate_InvalidGranularity(t *testing.T) {
	futureDate := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	assert.Empty(t, Generate(window("09:00", "18:00"), 0, 30, futureDate, now, 0))
	assert.Empty(t, Generate(window("09:00", "18:00"), -15, 30, futureDate, now, 0))
	assert.Empty(t, Generate(window("09:00", "18:00"), 30, 0, futureDate, now, 0))
}
