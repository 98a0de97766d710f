package update_appointment_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vmezhova/SLN-BookingEngine/internal/api/handlers"
	"github.com/vmezhova/SLN-BookingEngine/internal/api/middleware"
	"github.com/vmezhova/SLN-BookingEngine/internal/service/appointments"
	"github.com/vmezhova/SLN-BookingEngine/internal/service/appointments/models"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStatus        = "некорректный статус записи"
	msgInvalidTransition    = "недопустимый переход статуса"
	msgNotFound             = "запись не найдена"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgForbidden            = "доступ запрещен"
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

// Handle PATCH /api/v1/appointments/{appointmentId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq := &models.UpdateStatusRequest{
		UserID: userID,
		Status: req.Status,
	}

	if err := h.service.UpdateStatus(r.Context(), appointmentID, serviceReq); err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/status - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/{id}/status - Access denied: appointment_id=%d, user_id=%d",
				appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidTransition):
			h.logger.Warn("PATCH /appointments/{id}/status - Invalid transition: appointment_id=%d, status=%s",
				appointmentID, req.Status)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id}/status - Invalid status: appointment_id=%d, status=%s",
				appointmentID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("PATCH /appointments/{id}/status - Failed to update status: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/status - Status updated successfully: appointment_id=%d, status=%s, user_id=%d",
		appointmentID, req.Status, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
