package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

func ts(s string) types.TimeString {
	return types.TimeString(s)
}

func day(open, close string) domain.DaySchedule {
	return domain.DaySchedule{
		IsOpen: true,
		Open:   ts(open),
		Close:  ts(close),
	}
}

func closedDay() domain.DaySchedule {
	return domain.DaySchedule{IsOpen: false}
}

func TestResolve_InheritsOrganizationSchedule(t *testing.T) {
	interval, open := Resolve(day("10:00", "19:00"), nil)

	require.True(t, open)
	assert.Equal(t, "10:00", interval.Start.String())
	assert.Equal(t, "19:00", interval.End.String())
}

func TestResolve_IntersectsOverride(t *testing.T) {
	// Организация 10:00-19:00, мастер начинает в 12:00
	override := day("12:00", "19:00")

	interval, open := Resolve(day("10:00", "19:00"), &override)

	require.True(t, open)
	assert.Equal(t, "12:00", interval.Start.String())
	assert.Equal(t, "19:00", interval.End.String())
}

func TestResolve_OverrideOutsideOrganizationWindow(t *testing.T) {
	// Мастер хочет работать 19:00-23:00, организация открыта 09:00-18:00
	override := day("19:00", "23:00")

	_, open := Resolve(day("09:00", "18:00"), &override)

	assert.False(t, open, "непересекающиеся окна означают закрытый день")
}

func TestResolve_PartialOverlap(t *testing.T) {
	override := day("16:00", "22:00")

	interval, open := Resolve(day("09:00", "18:00"), &override)

	require.True(t, open)
	assert.Equal(t, "16:00", interval.Start.String())
	assert.Equal(t, "18:00", interval.End.String())
}

func TestResolve_OrganizationClosed(t *testing.T) {
	override := day("10:00", "18:00")

	_, open := Resolve(closedDay(), &override)

	assert.False(t, open, "мастер не может работать в закрытый день организации")
}

func TestResolve_OverrideClosed(t *testing.T) {
	override := closedDay()

	_, open := Resolve(day("09:00", "18:00"), &override)

	assert.False(t, open, "выходной мастера закрывает день независимо от организации")
}

func TestResolve_MalformedOrganizationWindow(t *testing.T) {
	// open >= close - окно считается закрытым, а не ошибкой
	malformed := domain.DaySchedule{IsOpen: true, Open: ts("18:00"), Close: ts("09:00")}

	_, open := Resolve(malformed, nil)

	assert.False(t, open)
}

func TestResolve_MalformedOverride(t *testing.T) {
	override := domain.DaySchedule{IsOpen: true, Open: ts("19:00"), Close: ts("10:00")}

	_, open := Resolve(day("09:00", "18:00"), &override)

	assert.False(t, open)
}

func TestResolveWeek_MixedDays(t *testing.T) {
	var org domain.WeeklySchedule
	for d := time.Monday; d <= time.Friday; d++ {
		org.SetDay(d, day("09:00", "18:00"))
	}
	// Суббота и воскресенье закрыты по умолчанию (zero value)

	override := domain.WeeklySchedule{}
	for d := time.Monday; d <= time.Friday; d++ {
		override.SetDay(d, day("12:00", "20:00"))
	}
	override.SetDay(time.Wednesday, closedDay())

	intervals, open := ResolveWeek(org, &override)

	assert.True(t, open[time.Monday])
	assert.Equal(t, "12:00", intervals[time.Monday].Start.String())
	assert.Equal(t, "18:00", intervals[time.Monday].End.String())

	assert.False(t, open[time.Wednesday], "выходной мастера в среду")
	assert.False(t, open[time.Saturday])
	assert.False(t, open[time.Sunday])
}
