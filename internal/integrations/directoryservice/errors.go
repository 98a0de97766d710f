package directoryservice

import "errors"

var (
	// ErrOrganizationNotFound возвращается, когда организация не найдена
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrSpecialistNotFound возвращается, когда мастер не найден
	ErrSpecialistNotFound = errors.New("specialist not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("directoryservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("directoryservice client: invalid response")
)
