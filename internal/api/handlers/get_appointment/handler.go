package get_appointment

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
	msgInvalidAppointmentID = "некорректный ID записи"
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

// Handle GET /api/v1/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Получаем запись (сервис сам проверит права доступа)
	appointment, err := h.service.GetByID(r.Context(), appointmentID, userID)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("GET /appointments/{id} - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /appointments/{id} - Access denied: appointment_id=%d, user_id=%d", appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /appointments/{id} - Failed to get appointment: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/{id} - Appointment retrieved successfully: appointment_id=%d, user_id=%d",
		appointmentID, userID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
