package get_available_slots

import (
	"context"
	"time"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	"github.com/vmezhova/SLN-BookingEngine/internal/integrations/directoryservice"
	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetOccupying получает записи, удерживающие слоты мастера на дату
	GetOccupying(ctx context.Context, specialistID int64, date time.Time) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория недельных расписаний
type ScheduleRepository interface {
	GetOrganizationWeek(ctx context.Context, organizationID int64) (*domain.WeeklySchedule, error)
	GetSpecialistWeek(ctx context.Context, specialistID int64) (*domain.WeeklySchedule, error)
}

// DirectoryClient интерфейс клиента DirectoryService
type DirectoryClient interface {
	GetOrganization(ctx context.Context, organizationID int64) (*directoryservice.Organization, error)
	GetSpecialist(ctx context.Context, organizationID, specialistID int64) (*directoryservice.Specialist, error)
	GetService(ctx context.Context, organizationID, serviceID int64) (*directoryservice.Service, error)
}

// SlotsCache интерфейс кэша списков слотов
type SlotsCache interface {
	Get(ctx context.Context, specialistID int64, date string, serviceID int64) ([]types.TimeString, error)
	Set(ctx context.Context, specialistID int64, date string, serviceID int64, slots []types.TimeString) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
