package get_available_slots

import (
	"time"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	getAvailableSlots "github.com/vmezhova/SLN-BookingEngine/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	OrganizationID  int64           `json:"organizationId"`
	SpecialistID    int64           `json:"specialistId"`
	ServiceID       int64           `json:"serviceId"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		OrganizationID:  resp.OrganizationID,
		SpecialistID:    resp.SpecialistID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(organizationID, specialistID, serviceID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		OrganizationID: organizationID,
		SpecialistID:   specialistID,
		ServiceID:      serviceID,
		Date:           date,
	}, nil
}
