package schedule

import (
	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

// BusyIntervals строит занятые интервалы из записей, удерживающих слот.
// Каждая запись расширяется на СВОЮ длительность (а не длительность
// бронируемой услуги). Записи со сломанным временем пропускаются -
// репортить их задача вызывающего кода.
func BusyIntervals(appointments []*domain.Appointment) []domain.TimeRange {
	busy := make([]domain.TimeRange, 0, len(appointments))

	for _, appt := range appointments {
		if !appt.Occupies() {
			continue
		}
		end, err := appt.StartTime.AddMinutes(appt.DurationMinutes)
		if err != nil {
			continue
		}
		busy = append(busy, domain.TimeRange{Start: appt.StartTime, End: end})
	}

	return busy
}

// FilterConflicts убирает кандидатов, пересекающихся с занятыми интервалами.
// Интервалы полуоткрытые: [a, b) и [b, c) НЕ конфликтуют.
func FilterConflicts(
	candidates []types.TimeString,
	serviceDurationMinutes int,
	busy []domain.TimeRange,
) []types.TimeString {
	free := make([]types.TimeString, 0, len(candidates))

	for _, candidate := range candidates {
		if CountOverlapping(candidate, serviceDurationMinutes, busy) == 0 {
			free = append(free, candidate)
		}
	}

	return free
}

// CountOverlapping подсчитывает занятые интервалы, пересекающиеся со слотом
// [start, start+durationMinutes). Граничащие интервалы пересечением не считаются.
func CountOverlapping(start types.TimeString, durationMinutes int, busy []domain.TimeRange) int {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return 0
	}

	slot := domain.TimeRange{Start: start, End: end}

	count := 0
	for _, b := range busy {
		if slot.Overlaps(b) {
			count++
		}
	}

	return count
}
