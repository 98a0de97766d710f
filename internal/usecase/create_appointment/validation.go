package create_appointment

import (
	"fmt"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	"github.com/vmezhova/SLN-BookingEngine/internal/integrations/directoryservice"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.OrganizationID <= 0 {
		return fmt.Errorf("%w: organizationID must be positive", ErrInvalidInput)
	}

	if req.SpecialistID <= 0 {
		return fmt.Errorf("%w: specialistID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.CustomerName != nil && len(*req.CustomerName) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customer name exceeds %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	if req.CustomerPhone != nil && len(*req.CustomerPhone) > domain.MaxCustomerPhoneLength {
		return fmt.Errorf("%w: customer phone exceeds %d characters", ErrInvalidInput, domain.MaxCustomerPhoneLength)
	}

	return nil
}

// validateSpecialist проверяет, что мастер принадлежит организации и активен
func validateSpecialist(spec *directoryservice.Specialist, organizationID int64) error {
	if spec.OrganizationID != organizationID {
		return ErrSpecialistNotFound
	}
	if !spec.IsActive {
		return ErrSpecialistInactive
	}
	return nil
}

// validateServiceOffered проверяет, что мастер оказывает услугу
func validateServiceOffered(service *directoryservice.Service, specialistID int64) error {
	for _, id := range service.SpecialistIDs {
		if id == specialistID {
			return nil
		}
	}
	return ErrServiceNotOffered
}

// validateCanonicalDuration сверяет присланную клиентом длительность
// с актуальной длительностью услуги из каталога
func validateCanonicalDuration(req *Request, service *directoryservice.Service) error {
	if req.DurationMinutes != service.DurationMinutes {
		return fmt.Errorf("%w: client saw %d minutes, canonical is %d minutes",
			ErrStaleDuration, req.DurationMinutes, service.DurationMinutes)
	}
	return nil
}

func getServicePrice(service *directoryservice.Service) float64 {
	if service.Price == nil {
		return 0.0
	}
	return *service.Price
}
