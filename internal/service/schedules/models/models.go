package models

// DayScheduleResponse эффективное рабочее окно на один день недели
type DayScheduleResponse struct {
	Weekday string  `json:"weekday"` // "monday" .. "sunday"
	IsOpen  bool    `json:"isOpen"`
	Open    *string `json:"open,omitempty"`  // "10:00", только если isOpen
	Close   *string `json:"close,omitempty"` // "19:00", только если isOpen
}

// EffectiveWeekResponse эффективное недельное расписание мастера
// Пересечение окна организации и переопределений мастера
type EffectiveWeekResponse struct {
	OrganizationID int64                 `json:"organizationId"`
	SpecialistID   int64                 `json:"specialistId"`
	Days           []DayScheduleResponse `json:"days"` // 7 элементов, понедельник первый
}
