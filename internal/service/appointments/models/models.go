package models

import (
	"errors"
	"time"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса записи
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetCustomerAppointmentsRequest запрос на получение записей клиента
type GetCustomerAppointmentsRequest struct {
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
}

// GetOrganizationAppointmentsRequest запрос на получение записей организации
type GetOrganizationAppointmentsRequest struct {
	UserID          int64      `json:"userId"`
	OrganizationID  int64      `json:"organizationId"`
	SpecialistID    *int64     `json:"specialistId,omitempty"` // Фильтр по мастеру (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`    // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`      // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`       // Фильтр по статусу (опционально)
	IncludeReleased bool       `json:"includeReleased,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetOrganizationAppointmentsRequest) ToDomainFilter() (domain.OrganizationAppointmentsFilter, error) {
	filter := domain.OrganizationAppointmentsFilter{
		OrganizationID:  r.OrganizationID,
		SpecialistID:    r.SpecialistID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeReleased: r.IncludeReleased,
	}

	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64  `json:"id"`
	OrganizationID  int64  `json:"organizationId"`
	SpecialistID    int64  `json:"specialistId"`
	ServiceID       int64  `json:"serviceId"`
	CustomerID      int64  `json:"customerId"`
	Date            string `json:"date"`      // "2025-10-15"
	StartTime       string `json:"startTime"` // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	// Денормализованные данные
	ServiceName   string  `json:"serviceName"`
	ServicePrice  float64 `json:"servicePrice"`
	CustomerName  *string `json:"customerName,omitempty"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	Notes         *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:              a.ID,
		OrganizationID:  a.OrganizationID,
		SpecialistID:    a.SpecialistID,
		ServiceID:       a.ServiceID,
		CustomerID:      a.CustomerID,
		Date:            a.Date.Format(domain.DateFormat),
		StartTime:       a.StartTime.String(),
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		ServiceName:     a.ServiceName,
		ServicePrice:    a.ServicePrice,
		CustomerName:    a.CustomerName,
		CustomerPhone:   a.CustomerPhone,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	resp.CancellationReason = a.CancellationReason
	if a.CancelledAt != nil {
		cancelled := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	appointments := make([]AppointmentResponse, 0, len(list))
	for _, a := range list {
		appointments = append(appointments, *FromDomainAppointment(a))
	}
	return &AppointmentListResponse{Appointments: appointments}
}

// ToDomainAppointmentStatus валидирует и конвертирует строковый статус
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	switch domain.AppointmentStatus(status) {
	case domain.StatusRequested, domain.StatusConfirmed, domain.StatusCompleted,
		domain.StatusCancelled, domain.StatusNoShow:
		return domain.AppointmentStatus(status), nil
	default:
		return "", ErrInvalidStatus
	}
}
