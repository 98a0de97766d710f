package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	appointmentRepo "github.com/vmezhova/SLN-BookingEngine/internal/infra/storage/appointment"
	directoryClient "github.com/vmezhova/SLN-BookingEngine/internal/integrations/directoryservice"
	"github.com/vmezhova/SLN-BookingEngine/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	directory       DirectoryClient
	cache           SlotsCache // nil = кэширование выключено
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	directory DirectoryClient,
	cache SlotsCache,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		directory:       directory,
		cache:           cache,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Проверяет права доступа - клиент может видеть только свою запись
// или если он менеджер организации
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, appt, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetCustomerAppointments получает историю записей клиента
// Опционально фильтрует по статусу
func (s *Service) GetCustomerAppointments(ctx context.Context, req *models.GetCustomerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetCustomerAppointments: fetching appointments for customer=%d, status=%v", req.CustomerID, req.Status)

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerAppointments: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appts, err := s.appointmentRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerAppointments: successfully fetched %d appointments for customer=%d", len(appts), req.CustomerID)
	return models.FromDomainAppointmentList(appts), nil
}

// GetOrganizationAppointments получает записи организации с гибкой фильтрацией
// Поддерживает фильтрацию по мастеру, периоду, статусу и включению освобождённых записей
// Доступно только менеджерам организации
func (s *Service) GetOrganizationAppointments(ctx context.Context, req *models.GetOrganizationAppointmentsRequest) (*models.AppointmentListResponse, error) {
	logMsg := fmt.Sprintf("GetOrganizationAppointments: fetching appointments for org=%d, user=%d", req.OrganizationID, req.UserID)
	if req.SpecialistID != nil {
		logMsg += fmt.Sprintf(", specialist=%d", *req.SpecialistID)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s",
			req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeReleased {
		logMsg += ", includeReleased=true"
	}
	s.logger.Info(logMsg)

	// Проверяем права доступа менеджера
	if err := s.checkManagerAccess(ctx, req.OrganizationID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetOrganizationAppointments: invalid filter for org=%d: %v", req.OrganizationID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appts, err := s.appointmentRepo.GetByOrganizationWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetOrganizationAppointments: repository error for org=%d: %v", req.OrganizationID, err)
		return nil, fmt.Errorf("%w: GetOrganizationAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetOrganizationAppointments: successfully fetched %d appointments for org=%d", len(appts), req.OrganizationID)
	return models.FromDomainAppointmentList(appts), nil
}

// Cancel отменяет запись
// Клиент может отменить только свою запись, менеджер - любую запись организации
// Отмена освобождает слот, поэтому кэш слотов мастера на эту дату инвалидируется
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Проверяем, можно ли отменить запись
	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appt.Status)
		return ErrCannotCancel
	}

	// Владелец записи или менеджер организации
	if appt.CustomerID != req.UserID {
		if err := s.checkManagerAccess(ctx, appt.OrganizationID, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel appointment id=%d", req.UserID, appointmentID)
			return ErrAccessDenied
		}
	}

	if err := s.appointmentRepo.Cancel(ctx, appointmentID, req.CancellationReason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Слот освободился - кэш слотов на эту дату устарел
	s.invalidateSlots(ctx, appt)

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)
	return nil
}

// UpdateStatus обновляет статус записи
// Доступно только менеджерам организации
// Допустимы только переходы requested -> confirmed/cancelled и
// confirmed -> completed/no_show/cancelled
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d",
		appointmentID, req.Status, req.UserID)

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа (только менеджер организации)
	if err := s.checkManagerAccess(ctx, appt.OrganizationID, req.UserID); err != nil {
		return err
	}

	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	// Проверяем допустимость перехода
	if !appt.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: invalid transition %s -> %s for appointment id=%d",
			appt.Status, newStatus, appointmentID)
		return ErrInvalidTransition
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, newStatus); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found during update", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Переход в терминальный статус освобождает слот
	if appt.Occupies() && !isOccupying(newStatus) {
		s.invalidateSlots(ctx, appt)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, newStatus)
	return nil
}

// Вспомогательные методы

// checkUserAccess проверяет, что пользователь имеет доступ к записи
// Клиент видит свою запись, менеджер организации - любую
func (s *Service) checkUserAccess(ctx context.Context, appt *domain.Appointment, userID int64) error {
	if appt.CustomerID == userID {
		return nil
	}

	if err := s.checkManagerAccess(ctx, appt.OrganizationID, userID); err != nil {
		// Ошибка уже залогирована в checkManagerAccess
		return ErrAccessDenied
	}

	return nil
}

// checkManagerAccess проверяет, что пользователь является менеджером организации
func (s *Service) checkManagerAccess(ctx context.Context, organizationID int64, userID int64) error {
	org, err := s.directory.GetOrganization(ctx, organizationID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrOrganizationNotFound) {
			s.logger.Warn("checkManagerAccess: organization id=%d not found", organizationID)
			return ErrOrganizationNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get organization id=%d: %v", organizationID, err)
		return fmt.Errorf("%w: checkManagerAccess - failed to get organization: %v", ErrInternal, err)
	}

	for _, managerID := range org.ManagerIDs {
		if managerID == userID {
			s.logger.Info("checkManagerAccess: user=%d is manager of organization=%d", userID, organizationID)
			return nil
		}
	}

	s.logger.Warn("checkManagerAccess: user=%d is not a manager of organization=%d", userID, organizationID)
	return ErrAccessDenied
}

// invalidateSlots сбрасывает кэш слотов мастера на дату записи
// Кэш вспомогательный: ошибка только логируется
func (s *Service) invalidateSlots(ctx context.Context, appt *domain.Appointment) {
	if s.cache == nil {
		return
	}

	dateStr := appt.Date.Format(domain.DateFormat)
	if err := s.cache.InvalidateDay(ctx, appt.SpecialistID, dateStr); err != nil {
		s.logger.Warn("invalidateSlots: cache invalidation failed for specialist=%d date=%s: %v",
			appt.SpecialistID, dateStr, err)
	}
}

func isOccupying(status domain.AppointmentStatus) bool {
	return status == domain.StatusRequested || status == domain.StatusConfirmed
}
