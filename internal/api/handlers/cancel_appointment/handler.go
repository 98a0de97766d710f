package cancel_appointment

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
	msgNotFound             = "запись не найдена"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgForbidden            = "доступ запрещен"
	msgCannotCancel         = "запись не может быть отменена"
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

// Handle PATCH /api/v1/appointments/{appointmentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CancelAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq := &models.CancelAppointmentRequest{
		UserID:             userID,
		CancellationReason: req.CancellationReason,
	}

	if err := h.service.Cancel(r.Context(), appointmentID, serviceReq); err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Access denied: appointment_id=%d, user_id=%d",
				appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrCannotCancel):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Cannot cancel: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgCannotCancel)

		default:
			h.logger.Error("PATCH /appointments/{id}/cancel - Failed to cancel: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/cancel - Appointment cancelled successfully: appointment_id=%d, user_id=%d",
		appointmentID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
