package directoryservice

// Organization модель организации из DirectoryService
type Organization struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Timezone   string  `json:"timezone"`    // IANA идентификатор, например "Europe/Moscow"
	ManagerIDs []int64 `json:"manager_ids"` // пользователи с правами администратора организации

	// Настройки движка бронирования организации
	SlotGranularityMinutes int  `json:"slot_granularity_minutes"`
	BookingBufferMinutes   *int `json:"booking_buffer_minutes"` // nil = один шаг сетки
}

// Specialist модель мастера из DirectoryService
type Specialist struct {
	ID             int64  `json:"id"`
	OrganizationID int64  `json:"organization_id"`
	Name           string `json:"name"`
	IsActive       bool   `json:"is_active"`
}

// Service модель услуги из DirectoryService
type Service struct {
	ID              int64    `json:"id"`
	OrganizationID  int64    `json:"organization_id"`
	Name            string   `json:"name"`
	Price           *float64 `json:"price"`
	DurationMinutes int      `json:"duration_minutes"` // каноническая длительность
	SpecialistIDs   []int64  `json:"specialist_ids"`   // мастера, оказывающие услугу
}

// ErrorResponse модель ошибки от DirectoryService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
