package create_appointment

import (
	"errors"
	"net/http"

	"github.com/vmezhova/SLN-BookingEngine/internal/api/handlers"
	"github.com/vmezhova/SLN-BookingEngine/internal/api/middleware"
	createAppointment "github.com/vmezhova/SLN-BookingEngine/internal/usecase/create_appointment"
	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime          = "некорректный формат времени начала, ожидается HH:MM"
	msgSlotTaken            = "выбранный временной слот уже занят"
	msgOrganizationNotFound = "организация не найдена"
	msgSpecialistNotFound   = "мастер не найден"
	msgSpecialistInactive   = "мастер не принимает записи"
	msgServiceNotFound      = "услуга не найдена"
	msgServiceNotOffered    = "мастер не оказывает выбранную услугу"
	msgStaleDuration        = "длительность услуги изменилась, обновите список слотов"
	msgInvalidBookingDate   = "некорректная дата записи"
	msgDayClosed            = "мастер не работает в выбранную дату"
	msgInvalidTimeSlot      = "некорректный временной слот"
	msgTooLateToBook        = "слишком поздно для записи на этот слот"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		if errors.Is(err, types.ErrInvalidTimeString) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotTaken):
			h.logger.Warn("POST /appointments - Slot taken: customer_id=%d, specialist_id=%d, time=%s",
				customerID, req.SpecialistID, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotTaken)

		case errors.Is(err, createAppointment.ErrOrganizationNotFound):
			h.logger.Warn("POST /appointments - Organization not found: org_id=%d", req.OrganizationID)
			handlers.RespondNotFound(w, msgOrganizationNotFound)

		case errors.Is(err, createAppointment.ErrSpecialistNotFound):
			h.logger.Warn("POST /appointments - Specialist not found: org_id=%d, specialist_id=%d",
				req.OrganizationID, req.SpecialistID)
			handlers.RespondNotFound(w, msgSpecialistNotFound)

		case errors.Is(err, createAppointment.ErrSpecialistInactive):
			h.logger.Warn("POST /appointments - Specialist inactive: specialist_id=%d", req.SpecialistID)
			handlers.RespondBadRequest(w, msgSpecialistInactive)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: org_id=%d, service_id=%d",
				req.OrganizationID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotOffered):
			h.logger.Warn("POST /appointments - Service not offered: specialist_id=%d, service_id=%d",
				req.SpecialistID, req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceNotOffered)

		case errors.Is(err, createAppointment.ErrStaleDuration):
			h.logger.Warn("POST /appointments - Stale duration: service_id=%d, sent=%d",
				req.ServiceID, req.DurationMinutes)
			handlers.RespondError(w, http.StatusConflict, msgStaleDuration)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Invalid date: customer_id=%d, date=%s", customerID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createAppointment.ErrDayClosed):
			h.logger.Warn("POST /appointments - Day closed: specialist_id=%d, date=%s", req.SpecialistID, req.Date)
			handlers.RespondBadRequest(w, msgDayClosed)

		case errors.Is(err, createAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments - Invalid time slot: specialist_id=%d, time=%s",
				req.SpecialistID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createAppointment.ErrTooLateToBook):
			h.logger.Warn("POST /appointments - Too late to book: specialist_id=%d, time=%s",
				req.SpecialistID, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: customer_id=%d, org_id=%d, error=%v",
				customerID, req.OrganizationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, customer_id=%d, specialist_id=%d",
		result.ID, customerID, req.SpecialistID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
