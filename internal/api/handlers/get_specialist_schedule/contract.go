package get_specialist_schedule

import (
	"context"

	"github.com/vmezhova/SLN-BookingEngine/internal/service/schedules/models"
)

type ScheduleService interface {
	GetEffectiveWeek(ctx context.Context, organizationID, specialistID int64) (*models.EffectiveWeekResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
