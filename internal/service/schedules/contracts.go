package schedules

import (
	"context"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	"github.com/vmezhova/SLN-BookingEngine/internal/integrations/directoryservice"
)

// ScheduleRepository интерфейс репозитория недельных расписаний
type ScheduleRepository interface {
	GetOrganizationWeek(ctx context.Context, organizationID int64) (*domain.WeeklySchedule, error)
	GetSpecialistWeek(ctx context.Context, specialistID int64) (*domain.WeeklySchedule, error)
}

// DirectoryClient интерфейс клиента DirectoryService
type DirectoryClient interface {
	GetOrganization(ctx context.Context, organizationID int64) (*directoryservice.Organization, error)
	GetSpecialist(ctx context.Context, organizationID, specialistID int64) (*directoryservice.Specialist, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
