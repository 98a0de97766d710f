package domain

import (
	"time"

	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusRequested AppointmentStatus = "requested"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// Appointment represents a booked time slot on a specialist's calendar
type Appointment struct {
	ID              int64
	OrganizationID  int64
	SpecialistID    int64
	ServiceID       int64
	CustomerID      int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	// Denormalized data for history
	ServiceName   string
	ServicePrice  float64
	CustomerName  *string
	CustomerPhone *string
	Notes         *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Occupies returns true if the appointment holds its time span on the calendar.
// Completed, cancelled and no-show appointments free their slot.
func (a *Appointment) Occupies() bool {
	return a.Status == StatusRequested || a.Status == StatusConfirmed
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusRequested || a.Status == StatusConfirmed
}

// IsTerminal returns true if the appointment reached a final status
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled || a.Status == StatusNoShow
}

// CanTransitionTo reports whether the status change is legal:
// requested -> {confirmed, cancelled}; confirmed -> {completed, no_show, cancelled};
// completed, cancelled and no_show are terminal.
func (a *Appointment) CanTransitionTo(target AppointmentStatus) bool {
	switch a.Status {
	case StatusRequested:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusCompleted || target == StatusNoShow || target == StatusCancelled
	default:
		return false
	}
}

// OrganizationAppointmentsFilter фильтр для получения записей организации
type OrganizationAppointmentsFilter struct {
	OrganizationID  int64              // Обязательный параметр
	SpecialistID    *int64             // Фильтр по мастеру (опционально)
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeReleased bool               // Включать ли записи, освободившие слот (completed, cancelled, no_show)
}
