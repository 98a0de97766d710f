package get_available_slots

import (
	"fmt"

	"github.com/vmezhova/SLN-BookingEngine/internal/integrations/directoryservice"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
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
