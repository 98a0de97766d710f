package schedules

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	scheduleRepo "github.com/vmezhova/SLN-BookingEngine/internal/infra/storage/schedule"
	directoryClient "github.com/vmezhova/SLN-BookingEngine/internal/integrations/directoryservice"
	"github.com/vmezhova/SLN-BookingEngine/internal/schedule"
	"github.com/vmezhova/SLN-BookingEngine/internal/service/schedules/models"
)

// Service сервис расчёта эффективных расписаний
type Service struct {
	scheduleRepo ScheduleRepository
	directory    DirectoryClient
	defaultDay   domain.DaySchedule
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	directory DirectoryClient,
	defaultDay domain.DaySchedule,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		directory:    directory,
		defaultDay:   defaultDay,
		logger:       logger,
	}
}

// GetEffectiveWeek вычисляет эффективное недельное расписание мастера:
// пересечение окна организации и переопределений мастера на каждый день
func (s *Service) GetEffectiveWeek(ctx context.Context, organizationID, specialistID int64) (*models.EffectiveWeekResponse, error) {
	s.logger.Info("GetEffectiveWeek: org=%d, specialist=%d", organizationID, specialistID)

	// Организация и членство мастера
	if _, err := s.directory.GetOrganization(ctx, organizationID); err != nil {
		if errors.Is(err, directoryClient.ErrOrganizationNotFound) {
			s.logger.Warn("GetEffectiveWeek: organization id=%d not found", organizationID)
			return nil, ErrOrganizationNotFound
		}
		s.logger.Error("GetEffectiveWeek: failed to get organization id=%d: %v", organizationID, err)
		return nil, fmt.Errorf("%w: failed to get organization: %v", ErrInternal, err)
	}

	spec, err := s.directory.GetSpecialist(ctx, organizationID, specialistID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrSpecialistNotFound) {
			s.logger.Warn("GetEffectiveWeek: specialist id=%d not found", specialistID)
			return nil, ErrSpecialistNotFound
		}
		s.logger.Error("GetEffectiveWeek: failed to get specialist id=%d: %v", specialistID, err)
		return nil, fmt.Errorf("%w: failed to get specialist: %v", ErrInternal, err)
	}
	if spec.OrganizationID != organizationID {
		s.logger.Warn("GetEffectiveWeek: specialist id=%d does not belong to org=%d", specialistID, organizationID)
		return nil, ErrSpecialistNotFound
	}

	// Расписание организации; при отсутствии - дефолтное окно на все дни
	orgWeek, err := s.scheduleRepo.GetOrganizationWeek(ctx, organizationID)
	if err != nil && !errors.Is(err, scheduleRepo.ErrScheduleNotConfigured) {
		s.logger.Error("GetEffectiveWeek: failed to get organization schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get organization schedule: %v", ErrInternal, err)
	}

	var org domain.WeeklySchedule
	if orgWeek != nil {
		org = *orgWeek
	} else {
		for i := range org {
			org[i] = s.defaultDay
		}
	}

	// Переопределения мастера; отсутствие означает наследование
	specWeek, err := s.scheduleRepo.GetSpecialistWeek(ctx, specialistID)
	if err != nil && !errors.Is(err, scheduleRepo.ErrScheduleNotConfigured) {
		s.logger.Error("GetEffectiveWeek: failed to get specialist schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get specialist schedule: %v", ErrInternal, err)
	}

	intervals, open := schedule.ResolveWeek(org, specWeek)

	s.logger.Info("GetEffectiveWeek: resolved week for specialist=%d", specialistID)
	return toResponse(organizationID, specialistID, intervals, open), nil
}

// toResponse собирает ответ, понедельник первым
func toResponse(organizationID, specialistID int64, intervals [7]domain.TimeRange, open [7]bool) *models.EffectiveWeekResponse {
	days := make([]models.DayScheduleResponse, 0, 7)

	for offset := 0; offset < 7; offset++ {
		weekday := time.Weekday((int(time.Monday) + offset) % 7)

		day := models.DayScheduleResponse{
			Weekday: strings.ToLower(weekday.String()),
			IsOpen:  open[weekday],
		}
		if open[weekday] {
			openTime := intervals[weekday].Start.String()
			closeTime := intervals[weekday].End.String()
			day.Open = &openTime
			day.Close = &closeTime
		}

		days = append(days, day)
	}

	return &models.EffectiveWeekResponse{
		OrganizationID: organizationID,
		SpecialistID:   specialistID,
		Days:           days,
	}
}
