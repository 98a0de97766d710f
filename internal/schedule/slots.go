package schedule

import (
	"time"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

// Generate перечисляет времена начала слотов внутри эффективного окна.
//
// Слоты идут от начала окна с фиксированным шагом granularityMinutes; слот
// попадает в результат, только если [t, t+serviceDurationMinutes) целиком
// лежит внутри окна. Если targetDate - сегодня (по часам организации),
// отбрасываются слоты раньше now + bufferMinutes. Буфер - явный параметр,
// по умолчанию конфигурация приравнивает его к granularityMinutes.
//
// Функция чистая: одинаковые входы (включая now) дают одинаковый результат.
func Generate(
	interval domain.TimeRange,
	granularityMinutes int,
	serviceDurationMinutes int,
	targetDate time.Time,
	now time.Time,
	bufferMinutes int,
) []types.TimeString {
	slots := make([]types.TimeString, 0)

	if granularityMinutes <= 0 || serviceDurationMinutes <= 0 {
		return slots
	}
	if IsDateInPast(targetDate, now) {
		return slots
	}

	start, err := interval.Start.Minutes()
	if err != nil {
		return slots
	}
	end, err := interval.End.Minutes()
	if err != nil {
		return slots
	}

	// Для сегодняшней даты вычисляем минимально допустимое время начала
	minStart := -1
	if IsSameDay(targetDate, now) {
		minStart = now.Hour()*60 + now.Minute() + bufferMinutes
	}

	for t := start; t+serviceDurationMinutes <= end; t += granularityMinutes {
		if t < minStart {
			continue
		}
		slot, err := types.NewTimeStringFromMinutes(t)
		if err != nil {
			break
		}
		slots = append(slots, slot)
	}

	return slots
}

// IsSameDay проверяет, что две даты относятся к одному календарному дню
func IsSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsDateInPast проверяет, что дата раньше сегодняшнего календарного дня.
// Аргументы могут приходить в разных локациях (дата запроса парсится в UTC,
// "сейчас" берётся в зоне организации), поэтому сравниваются календарные
// компоненты, а не моменты времени.
func IsDateInPast(date, now time.Time) bool {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	if y1 != y2 {
		return y1 < y2
	}
	if m1 != m2 {
		return m1 < m2
	}
	return d1 < d2
}
