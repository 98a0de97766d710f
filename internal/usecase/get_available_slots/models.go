package get_available_slots

import (
	"time"

	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	OrganizationID int64     // ID организации
	SpecialistID   int64     // ID мастера
	ServiceID      int64     // ID услуги
	Date           time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
// Пустой список - штатный результат (день закрыт или всё занято)
type Response struct {
	Date            time.Time // Дата, на которую запрашивались слоты
	OrganizationID  int64
	SpecialistID    int64
	ServiceID       int64
	DurationMinutes int    // Длительность услуги
	Slots           []Slot // Упорядоченный список доступных слотов
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала ("10:00")
	DurationMinutes int              // Длительность в минутах
}
