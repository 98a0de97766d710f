package get_specialist_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vmezhova/SLN-BookingEngine/internal/api/handlers"
	"github.com/vmezhova/SLN-BookingEngine/internal/service/schedules"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgInvalidSpecialistID   = "некорректный ID мастера"
	msgOrganizationNotFound  = "организация не найдена"
	msgSpecialistNotFound    = "мастер не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/organizations/{organizationId}/specialists/{specialistId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	organizationID, err := strconv.ParseInt(vars["organizationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/specialists/{id}/schedule - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	specialistID, err := strconv.ParseInt(vars["specialistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/specialists/{id}/schedule - Invalid specialist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpecialistID)
		return
	}

	result, err := h.service.GetEffectiveWeek(r.Context(), organizationID, specialistID)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrOrganizationNotFound):
			h.logger.Warn("GET /organizations/{id}/specialists/{id}/schedule - Organization not found: org_id=%d", organizationID)
			handlers.RespondNotFound(w, msgOrganizationNotFound)

		case errors.Is(err, schedules.ErrSpecialistNotFound):
			h.logger.Warn("GET /organizations/{id}/specialists/{id}/schedule - Specialist not found: org_id=%d, specialist_id=%d",
				organizationID, specialistID)
			handlers.RespondNotFound(w, msgSpecialistNotFound)

		default:
			h.logger.Error("GET /organizations/{id}/specialists/{id}/schedule - Failed to get schedule: org_id=%d, specialist_id=%d, error=%v",
				organizationID, specialistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /organizations/{id}/specialists/{id}/schedule - Schedule retrieved successfully: org_id=%d, specialist_id=%d",
		organizationID, specialistID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
