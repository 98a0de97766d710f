package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrOrganizationNotFound возвращается, когда организация не найдена
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда запись не может быть отменена
	ErrCannotCancel = errors.New("appointment cannot be cancelled")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
