package create_appointment

import (
	"context"
	"time"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	"github.com/vmezhova/SLN-BookingEngine/internal/integrations/directoryservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// Create вставляет запись; проигрыш гонки за слот - ErrSlotTaken репозитория
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	// GetOccupying получает записи, удерживающие слоты мастера на дату
	// Внутри транзакции блокирует строки (FOR UPDATE)
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

// SlotsCache интерфейс для инвалидации кэша слотов после успешного claim
type SlotsCache interface {
	InvalidateDay(ctx context.Context, specialistID int64, date string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
