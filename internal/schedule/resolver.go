package schedule

import (
	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

// Resolve вычисляет эффективное окно работы мастера на один день недели:
// пересечение расписания организации и переопределения мастера.
//
// override == nil означает, что мастер полностью наследует расписание организации.
// Если любая из сторон закрыта или содержит некорректные времена, день считается
// закрытым - ошибки наружу не выходят.
//
// Возвращает (окно, true) либо (_, false), если день закрыт или пересечение пусто.
func Resolve(org domain.DaySchedule, override *domain.DaySchedule) (domain.TimeRange, bool) {
	res := org
	if override != nil {
		res = *override
	}

	if !org.IsOpen || !res.IsOpen {
		return domain.TimeRange{}, false
	}
	if org.Validate() != nil || res.Validate() != nil {
		return domain.TimeRange{}, false
	}

	start := maxTime(org.Open, res.Open)
	end := minTime(org.Close, res.Close)

	if !start.IsBefore(end) {
		return domain.TimeRange{}, false
	}

	return domain.TimeRange{Start: start, End: end}, true
}

// ResolveWeek вычисляет эффективное расписание на все 7 дней недели.
// closed[i] == false означает, что день i (time.Weekday) закрыт.
func ResolveWeek(org domain.WeeklySchedule, override *domain.WeeklySchedule) ([7]domain.TimeRange, [7]bool) {
	var intervals [7]domain.TimeRange
	var open [7]bool

	for i := 0; i < 7; i++ {
		var dayOverride *domain.DaySchedule
		if override != nil {
			day := override[i]
			dayOverride = &day
		}
		intervals[i], open[i] = Resolve(org[i], dayOverride)
	}

	return intervals, open
}

func maxTime(a, b types.TimeString) types.TimeString {
	if a.IsAfter(b) {
		return a
	}
	return b
}

func minTime(a, b types.TimeString) types.TimeString {
	if a.IsBefore(b) {
		return a
	}
	return b
}
