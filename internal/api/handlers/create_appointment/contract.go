package create_appointment

import (
	"context"

	createAppointment "github.com/vmezhova/SLN-BookingEngine/internal/usecase/create_appointment"
)

type CreateAppointmentUseCase interface {
	Execute(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
