package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

func appt(start string, durationMinutes int, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		StartTime:       types.TimeString(start),
		DurationMinutes: durationMinutes,
		Status:          status,
	}
}

func TestBusyIntervals_UsesOwnDurations(t *testing.T) {
	// Записи расширяются на собственную длительность, а не на длительность
	// бронируемой услуги
	busy := BusyIntervals([]*domain.Appointment{
		appt("10:00", 90, domain.StatusConfirmed),
		appt("14:00", 15, domain.StatusRequested),
	})

	assert.Len(t, busy, 2)
	assert.Equal(t, "11:30", busy[0].End.String())
	assert.Equal(t, "14:15", busy[1].End.String())
}

func TestBusyIntervals_SkipsReleased(t *testing.T) {
	busy := BusyIntervals([]*domain.Appointment{
		appt("10:00", 30, domain.StatusCancelled),
		appt("11:00", 30, domain.StatusCompleted),
		appt("12:00", 30, domain.StatusNoShow),
		appt("13:00", 30, domain.StatusConfirmed),
	})

	assert.Len(t, busy, 1, "слот удерживают только requested и confirmed")
	assert.Equal(t, "13:00", busy[0].Start.String())
}

func TestFilterConflicts_LongAppointmentBlocksSeveralSlots(t *testing.T) {
	// Подтверждённая запись 10:00 на 90 минут занимает [10:00, 11:30)
	busy := BusyIntervals([]*domain.Appointment{
		appt("10:00", 90, domain.StatusConfirmed),
	})

	candidates := []types.TimeString{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00"}

	// Услуга 60 минут: 09:30 залезает в [10:00, 11:30), 11:30 уже свободен
	free := FilterConflicts(candidates, 60, busy)

	assert.Equal(t, []types.TimeString{"09:00", "11:30", "12:00"}, free)
}

func TestFilterConflicts_TouchingEndpointsDoNotConflict(t *testing.T) {
	busy := []domain.TimeRange{{Start: "10:00", End: "11:00"}}

	// [09:00, 10:00) и [11:00, 12:00) граничат с занятым интервалом
	free := FilterConflicts([]types.TimeString{"09:00", "10:00", "10:30", "11:00"}, 60, busy)

	assert.Equal(t, []types.TimeString{"09:00", "11:00"}, free)
}

func TestCountOverlapping(t *testing.T) {
	busy := []domain.TimeRange{
		{Start: "10:00", End: "11:00"},
		{Start: "10:30", End: "11:30"},
	}

	assert.Equal(t, 2, CountOverlapping("10:45", 30, busy))
	assert.Equal(t, 1, CountOverlapping("11:00", 30, busy))
	assert.Equal(t, 0, CountOverlapping("11:30", 30, busy))
	assert.Equal(t, 0, CountOverlapping("09:00", 60, busy))
}

func TestCountOverlapping_OverflowingSlot(t *testing.T) {
	// Слот, выходящий за полночь, не считается пересекающимся
	busy := []domain.TimeRange{{Start: "23:00", End: "23:59"}}

	assert.Equal(t, 0, CountOverlapping("23:30", 60, busy))
}
