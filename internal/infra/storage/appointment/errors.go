package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotTaken возвращается, когда вставка проиграла гонку за слот
	// (сработал частичный уникальный индекс занятости)
	ErrSlotTaken = errors.New("appointment.repository: slot already taken")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
