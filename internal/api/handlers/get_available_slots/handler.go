package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vmezhova/SLN-BookingEngine/internal/api/handlers"
	getAvailableSlots "github.com/vmezhova/SLN-BookingEngine/internal/usecase/get_available_slots"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgInvalidSpecialistID   = "некорректный ID мастера"
	msgInvalidServiceID      = "некорректный ID услуги"
	msgMissingServiceID      = "ID услуги обязателен"
	msgMissingDate           = "дата обязательна"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgOrganizationNotFound  = "организация не найдена"
	msgSpecialistNotFound    = "мастер не найден"
	msgSpecialistInactive    = "мастер не принимает записи"
	msgServiceNotFound       = "услуга не найдена"
	msgServiceNotOffered     = "мастер не оказывает выбранную услугу"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/organizations/{organizationId}/specialists/{specialistId}/available-slots
// Query params: serviceId (required), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	organizationID, err := strconv.ParseInt(vars["organizationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/specialists/{id}/available-slots - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	specialistID, err := strconv.ParseInt(vars["specialistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/specialists/{id}/available-slots - Invalid specialist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpecialistID)
		return
	}

	serviceIDStr := r.URL.Query().Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /organizations/{id}/specialists/{id}/available-slots - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/specialists/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /organizations/{id}/specialists/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(organizationID, specialistID, serviceID, dateStr)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/specialists/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrOrganizationNotFound):
			h.logger.Warn("GET /organizations/{id}/specialists/{id}/available-slots - Organization not found: org_id=%d", organizationID)
			handlers.RespondNotFound(w, msgOrganizationNotFound)

		case errors.Is(err, getAvailableSlots.ErrSpecialistNotFound):
			h.logger.Warn("GET /organizations/{id}/specialists/{id}/available-slots - Specialist not found: org_id=%d, specialist_id=%d",
				organizationID, specialistID)
			handlers.RespondNotFound(w, msgSpecialistNotFound)

		case errors.Is(err, getAvailableSlots.ErrSpecialistInactive):
			h.logger.Warn("GET /organizations/{id}/specialists/{id}/available-slots - Specialist inactive: org_id=%d, specialist_id=%d",
				organizationID, specialistID)
			handlers.RespondBadRequest(w, msgSpecialistInactive)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /organizations/{id}/specialists/{id}/available-slots - Service not found: org_id=%d, service_id=%d",
				organizationID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotOffered):
			h.logger.Warn("GET /organizations/{id}/specialists/{id}/available-slots - Service not offered: specialist_id=%d, service_id=%d",
				specialistID, serviceID)
			handlers.RespondBadRequest(w, msgServiceNotOffered)

		default:
			h.logger.Error("GET /organizations/{id}/specialists/{id}/available-slots - Failed to get slots: org_id=%d, specialist_id=%d, service_id=%d, error=%v",
				organizationID, specialistID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /organizations/{id}/specialists/{id}/available-slots - Slots retrieved successfully: org_id=%d, specialist_id=%d, service_id=%d, slots_count=%d",
		organizationID, specialistID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
