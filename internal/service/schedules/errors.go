package schedules

import "errors"

var (
	// ErrOrganizationNotFound возвращается, когда организация не найдена
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrSpecialistNotFound возвращается, когда мастер не найден в организации
	ErrSpecialistNotFound = errors.New("specialist not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
