package schedule

import "errors"

var (
	// ErrScheduleNotConfigured возвращается, когда недельное расписание не настроено
	// Для мастера это штатная ситуация: он наследует расписание организации
	ErrScheduleNotConfigured = errors.New("schedule.repository: weekly schedule not configured")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
