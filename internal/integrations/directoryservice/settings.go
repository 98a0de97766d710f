package directoryservice

import "github.com/vmezhova/SLN-BookingEngine/internal/domain"

// Granularity возвращает шаг сетки слотов организации
// Для незаполненной настройки действует дефолт домена
func (o *Organization) Granularity() int {
	if o.SlotGranularityMinutes <= 0 {
		return domain.DefaultSlotGranularityMinutes
	}
	return o.SlotGranularityMinutes
}

// Buffer возвращает буфер "слишком поздно бронировать" для сегодняшних слотов
// Если организация не задала буфер явно, он равен одному шагу сетки
func (o *Organization) Buffer() int {
	if o.BookingBufferMinutes == nil || *o.BookingBufferMinutes < 0 {
		return o.Granularity()
	}
	return *o.BookingBufferMinutes
}
