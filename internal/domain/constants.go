package domain

// Default configuration values
const (
	DefaultSlotGranularityMinutes = 30
)

// Business validation constants
const (
	MinSlotGranularityMinutes   = 5
	MaxSlotGranularityMinutes   = 480 // 8 hours
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxCustomerNameLength       = 200
	MaxCustomerPhoneLength      = 32
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupyingStatuses статусы записей, удерживающих слот в календаре
// Используются при подсчёте занятости
var OccupyingStatuses = []AppointmentStatus{
	StatusRequested,
	StatusConfirmed,
}

// ReleasedStatuses статусы записей, освободивших слот
var ReleasedStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}
