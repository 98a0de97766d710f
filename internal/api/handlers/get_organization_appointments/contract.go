package get_organization_appointments

import (
	"context"

	"github.com/vmezhova/SLN-BookingEngine/internal/service/appointments/models"
)

type AppointmentService interface {
	GetOrganizationAppointments(ctx context.Context, req *models.GetOrganizationAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
