package create_appointment

import (
	"time"

	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

// Request модель запроса на создание записи (claim слота)
type Request struct {
	CustomerID     int64            // ID клиента (из аутентификации)
	OrganizationID int64            // ID организации
	SpecialistID   int64            // ID мастера
	ServiceID      int64            // ID услуги
	Date           time.Time        // Дата записи (без времени)
	StartTime      types.TimeString // Время начала слота ("10:00")

	// Длительность, которую видел клиент при выборе слота
	// Сверяется с актуальной канонической длительностью услуги:
	// устаревший снапшот каталога отклоняется
	DurationMinutes int

	CustomerName  *string // Имя клиента (опционально)
	CustomerPhone *string // Телефон клиента (опционально)
	Notes         *string // Пожелания к записи (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	OrganizationID  int64
	SpecialistID    int64
	ServiceID       int64
	CustomerID      int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          string

	// Денормализованные данные
	ServiceName   string
	ServicePrice  float64
	CustomerName  *string
	CustomerPhone *string
	Notes         *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
