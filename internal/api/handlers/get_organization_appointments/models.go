package get_organization_appointments

import (
	"fmt"
	"strconv"
	"time"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	"github.com/vmezhova/SLN-BookingEngine/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// Параметры date и startDate/endDate взаимоисключающие: date задаёт один день
func ToServiceRequest(
	organizationID int64,
	userID int64,
	specialistIDStr string,
	statusStr string,
	dateStr string,
	startDateStr string,
	endDateStr string,
	includeReleasedStr string,
) (*models.GetOrganizationAppointmentsRequest, error) {
	req := &models.GetOrganizationAppointmentsRequest{
		UserID:          userID,
		OrganizationID:  organizationID,
		IncludeReleased: false, // По умолчанию только удерживающие слот
	}

	if specialistIDStr != "" {
		specialistID, err := strconv.ParseInt(specialistIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.SpecialistID = &specialistID
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
		req.EndDate = &date
	} else if startDateStr != "" && endDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, err
		}
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, err
		}
		if endDate.Before(startDate) {
			return nil, fmt.Errorf("endDate is before startDate")
		}
		req.StartDate = &startDate
		req.EndDate = &endDate
	}

	if includeReleasedStr != "" {
		includeReleased, err := strconv.ParseBool(includeReleasedStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeReleased value: %w", err)
		}
		req.IncludeReleased = includeReleased
	}

	return req, nil
}
