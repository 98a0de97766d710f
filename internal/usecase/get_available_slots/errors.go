package get_available_slots

import "errors"

var (
	// ErrOrganizationNotFound возвращается, когда организация не найдена
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrSpecialistNotFound возвращается, когда мастер не найден в организации
	ErrSpecialistNotFound = errors.New("specialist not found")

	// ErrSpecialistInactive возвращается, когда мастер не принимает записи
	ErrSpecialistInactive = errors.New("specialist is not active")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceNotOffered возвращается, когда мастер не оказывает услугу
	ErrServiceNotOffered = errors.New("service is not offered by this specialist")

	// ErrInvalidDate возвращается при некорректной дате (например, в прошлом)
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
