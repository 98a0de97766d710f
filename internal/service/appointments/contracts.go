package appointments

import (
	"context"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	"github.com/vmezhova/SLN-BookingEngine/internal/integrations/directoryservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByCustomerID(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	GetByOrganizationWithFilter(ctx context.Context, filter domain.OrganizationAppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// DirectoryClient интерфейс клиента DirectoryService
type DirectoryClient interface {
	GetOrganization(ctx context.Context, organizationID int64) (*directoryservice.Organization, error)
}

// SlotsCache интерфейс инвалидации кэша слотов при освобождении слота
type SlotsCache interface {
	InvalidateDay(ctx context.Context, specialistID int64, date string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
