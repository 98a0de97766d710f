package create_appointment

import "errors"

var (
	// ErrOrganizationNotFound возвращается, когда организация не найдена
	ErrOrganizationNotFound = errors.New("create_appointment: organization not found")

	// ErrSpecialistNotFound возвращается, когда мастер не найден в организации
	ErrSpecialistNotFound = errors.New("create_appointment: specialist not found")

	// ErrSpecialistInactive возвращается, когда мастер не принимает записи
	ErrSpecialistInactive = errors.New("create_appointment: specialist is not active")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrServiceNotOffered возвращается, когда мастер не оказывает услугу
	ErrServiceNotOffered = errors.New("create_appointment: service is not offered by this specialist")

	// ErrStaleDuration возвращается, когда клиент прислал длительность,
	// не совпадающую с актуальной канонической длительностью услуги
	ErrStaleDuration = errors.New("create_appointment: stale service duration")

	// ErrInvalidDate возвращается при некорректной дате записи
	ErrInvalidDate = errors.New("create_appointment: invalid appointment date")

	// ErrDayClosed возвращается, когда у мастера нет рабочего окна в этот день
	ErrDayClosed = errors.New("create_appointment: specialist is not available on this date")

	// ErrInvalidTimeSlot возвращается, когда время не лежит на сетке слотов
	// или слот не помещается в рабочее окно
	ErrInvalidTimeSlot = errors.New("create_appointment: invalid time slot")

	// ErrTooLateToBook возвращается, когда слот нарушает буфер "не раньше чем через N минут"
	ErrTooLateToBook = errors.New("create_appointment: too late to book this slot")

	// ErrSlotTaken возвращается, когда claim проиграл гонку за слот
	ErrSlotTaken = errors.New("create_appointment: slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
