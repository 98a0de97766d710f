package create_appointment

import (
	"time"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	createAppointment "github.com/vmezhova/SLN-BookingEngine/internal/usecase/create_appointment"
	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	OrganizationID int64  `json:"organizationId"`
	SpecialistID   int64  `json:"specialistId"`
	ServiceID      int64  `json:"serviceId"`
	Date           string `json:"date"`      // "2025-10-15"
	StartTime      string `json:"startTime"` // "10:00"

	// Длительность, которую клиент видел при выборе слота
	DurationMinutes int `json:"durationMinutes"`

	CustomerName  *string `json:"customerName,omitempty"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	OrganizationID  int64   `json:"organizationId"`
	SpecialistID    int64   `json:"specialistId"`
	ServiceID       int64   `json:"serviceId"`
	CustomerID      int64   `json:"customerId"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	CustomerName    *string `json:"customerName,omitempty"`
	CustomerPhone   *string `json:"customerPhone,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(customerID int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		CustomerID:      customerID,
		OrganizationID:  r.OrganizationID,
		SpecialistID:    r.SpecialistID,
		ServiceID:       r.ServiceID,
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: r.DurationMinutes,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		Notes:           r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		OrganizationID:  resp.OrganizationID,
		SpecialistID:    resp.SpecialistID,
		ServiceID:       resp.ServiceID,
		CustomerID:      resp.CustomerID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		CustomerName:    resp.CustomerName,
		CustomerPhone:   resp.CustomerPhone,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
