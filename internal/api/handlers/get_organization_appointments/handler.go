package get_organization_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vmezhova/SLN-BookingEngine/internal/api/handlers"
	"github.com/vmezhova/SLN-BookingEngine/internal/api/middleware"
	"github.com/vmezhova/SLN-BookingEngine/internal/service/appointments"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgInvalidParams         = "некорректные параметры запроса"
	msgOrganizationNotFound  = "организация не найдена"
	msgForbidden             = "доступ запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/organizations/{organizationId}/appointments
// Query params: specialistId, status, date, startDate, endDate, includeReleased (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	organizationID, err := strconv.ParseInt(vars["organizationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/appointments - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /organizations/{id}/appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(
		organizationID,
		userID,
		query.Get("specialistId"),
		query.Get("status"),
		query.Get("date"),
		query.Get("startDate"),
		query.Get("endDate"),
		query.Get("includeReleased"),
	)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/appointments - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Получаем записи организации (сервис сам проверит права менеджера)
	result, err := h.service.GetOrganizationAppointments(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrOrganizationNotFound):
			h.logger.Warn("GET /organizations/{id}/appointments - Organization not found: org_id=%d", organizationID)
			handlers.RespondNotFound(w, msgOrganizationNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /organizations/{id}/appointments - Access denied: org_id=%d, user_id=%d",
				organizationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /organizations/{id}/appointments - Invalid filter: org_id=%d, error=%v",
				organizationID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /organizations/{id}/appointments - Failed to get appointments: org_id=%d, error=%v",
				organizationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /organizations/{id}/appointments - Appointments retrieved successfully: org_id=%d, count=%d",
		organizationID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result.Appointments)
}
