package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	scheduleRepo "github.com/vmezhova/SLN-BookingEngine/internal/infra/storage/schedule"
	directoryClient "github.com/vmezhova/SLN-BookingEngine/internal/integrations/directoryservice"
	"github.com/vmezhova/SLN-BookingEngine/internal/schedule"
	"github.com/vmezhova/SLN-BookingEngine/pkg/metrics"
	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	directory       DirectoryClient
	cache           SlotsCache // nil = кэширование выключено
	defaultDay      domain.DaySchedule
	timeProvider    TimeProvider
	metrics         *metrics.Metrics // nil = метрики выключены
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// defaultDay - сконфигурированное дневное окно для организаций без расписания
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	directory DirectoryClient,
	cache SlotsCache,
	defaultDay domain.DaySchedule,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		directory:       directory,
		cache:           cache,
		defaultDay:      defaultDay,
		timeProvider:    &RealTimeProvider{},
		metrics:         m,
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
//
// Пустой список слотов - штатный, "тихий" результат: день закрыт, всё занято
// или на сегодня уже поздно. Ошибкой это не является.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: org=%d, specialist=%d, service=%d, date=%s",
		req.OrganizationID, req.SpecialistID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем организацию
	org, err := uc.directory.GetOrganization(ctx, req.OrganizationID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrOrganizationNotFound) {
			uc.logger.Warn("GetAvailableSlots: organization id=%d not found", req.OrganizationID)
			return nil, ErrOrganizationNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get organization id=%d: %v", req.OrganizationID, err)
		return nil, fmt.Errorf("%w: failed to get organization: %v", ErrInternal, err)
	}

	// 3. Текущее время в часовом поясе организации
	// "Сегодня" и буфер считаются строго по стенным часам организации
	now := uc.nowIn(org)

	// 4. Получаем мастера и проверяем принадлежность организации
	spec, err := uc.directory.GetSpecialist(ctx, req.OrganizationID, req.SpecialistID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrSpecialistNotFound) {
			uc.logger.Warn("GetAvailableSlots: specialist id=%d not found", req.SpecialistID)
			return nil, ErrSpecialistNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get specialist id=%d: %v", req.SpecialistID, err)
		return nil, fmt.Errorf("%w: failed to get specialist: %v", ErrInternal, err)
	}
	if err := validateSpecialist(spec, req.OrganizationID); err != nil {
		uc.logger.Warn("GetAvailableSlots: specialist id=%d rejected: %v", req.SpecialistID, err)
		return nil, err
	}

	// 5. Получаем услугу и проверяем, что мастер её оказывает
	service, err := uc.directory.GetService(ctx, req.OrganizationID, req.ServiceID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if err := validateServiceOffered(service, req.SpecialistID); err != nil {
		uc.logger.Warn("GetAvailableSlots: service id=%d not offered by specialist id=%d",
			req.ServiceID, req.SpecialistID)
		return nil, err
	}

	// 6. Дата в прошлом - пустой список, не ошибка
	if schedule.IsDateInPast(req.Date, now) {
		return uc.emptyResponse(req, service.DurationMinutes), nil
	}

	// 7. Проверяем кэш
	dateStr := req.Date.Format(domain.DateFormat)
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, req.SpecialistID, dateStr, req.ServiceID); err == nil {
			if uc.metrics != nil {
				uc.metrics.SlotCacheHitsTotal.Inc()
			}
			uc.logger.Info("GetAvailableSlots: cache hit, specialist=%d, date=%s, %d slots",
				req.SpecialistID, dateStr, len(cached))
			return uc.toResponse(req, service.DurationMinutes, cached), nil
		}
		if uc.metrics != nil {
			uc.metrics.SlotCacheMissesTotal.Inc()
		}
	}

	// 8. Вычисляем кандидатов (эффективное окно + сетка + буфер)
	candidates, err := uc.computeCandidates(ctx, req, org, service.DurationMinutes, now)
	if err != nil {
		return nil, err
	}

	// 9. Убираем занятые слоты
	occupying, err := uc.appointmentRepo.GetOccupying(ctx, req.SpecialistID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get occupying appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get occupying appointments: %v", ErrInternal, err)
	}

	free := schedule.FilterConflicts(candidates, service.DurationMinutes, schedule.BusyIntervals(occupying))

	// 10. Кэшируем результат
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, req.SpecialistID, dateStr, req.ServiceID, free); err != nil {
			// Кэш вспомогательный: ошибка записи не ломает ответ
			uc.logger.Warn("GetAvailableSlots: cache set failed: %v", err)
		}
	}

	uc.logger.Info("GetAvailableSlots: %d free of %d candidates, specialist=%d, date=%s",
		len(free), len(candidates), req.SpecialistID, dateStr)

	return uc.toResponse(req, service.DurationMinutes, free), nil
}

// computeCandidates вычисляет кандидатов слотов на дату без учёта занятости
func (uc *UseCase) computeCandidates(
	ctx context.Context,
	req *Request,
	org *directoryClient.Organization,
	serviceDuration int,
	now time.Time,
) ([]types.TimeString, error) {
	orgDay, specDay, err := uc.daySchedules(ctx, req.OrganizationID, req.SpecialistID, req.Date.Weekday())
	if err != nil {
		return nil, err
	}

	interval, open := schedule.Resolve(orgDay, specDay)
	if !open {
		uc.reportMalformed(req, orgDay, specDay)
		return []types.TimeString{}, nil
	}

	return schedule.Generate(interval, org.Granularity(), serviceDuration, req.Date, now, org.Buffer()), nil
}

// daySchedules загружает дневные расписания организации и мастера
// Отсутствие расписания организации замещается сконфигурированным дефолтным окном;
// отсутствие расписания мастера означает наследование
func (uc *UseCase) daySchedules(
	ctx context.Context,
	organizationID, specialistID int64,
	weekday time.Weekday,
) (domain.DaySchedule, *domain.DaySchedule, error) {
	orgWeek, err := uc.scheduleRepo.GetOrganizationWeek(ctx, organizationID)
	if err != nil && !errors.Is(err, scheduleRepo.ErrScheduleNotConfigured) {
		uc.logger.Error("GetAvailableSlots: failed to get organization schedule: %v", err)
		return domain.DaySchedule{}, nil, fmt.Errorf("%w: failed to get organization schedule: %v", ErrInternal, err)
	}

	orgDay := uc.defaultDay
	if orgWeek != nil {
		orgDay = orgWeek.Day(weekday)
	} else {
		uc.logger.Info("GetAvailableSlots: organization id=%d has no schedule, using configured default window", organizationID)
	}

	specWeek, err := uc.scheduleRepo.GetSpecialistWeek(ctx, specialistID)
	if err != nil && !errors.Is(err, scheduleRepo.ErrScheduleNotConfigured) {
		uc.logger.Error("GetAvailableSlots: failed to get specialist schedule: %v", err)
		return domain.DaySchedule{}, nil, fmt.Errorf("%w: failed to get specialist schedule: %v", ErrInternal, err)
	}

	var specDay *domain.DaySchedule
	if specWeek != nil {
		day := specWeek.Day(weekday)
		specDay = &day
	}

	return orgDay, specDay, nil
}

// reportMalformed логирует аномалию, когда день закрылся из-за сломанных данных расписания
func (uc *UseCase) reportMalformed(req *Request, orgDay domain.DaySchedule, specDay *domain.DaySchedule) {
	if orgDay.IsOpen {
		if err := orgDay.Validate(); err != nil {
			uc.logger.Warn("GetAvailableSlots: malformed organization schedule, org=%d, date=%s, degraded to closed: %v",
				req.OrganizationID, req.Date.Format(domain.DateFormat), err)
		}
	}
	if specDay != nil && specDay.IsOpen {
		if err := specDay.Validate(); err != nil {
			uc.logger.Warn("GetAvailableSlots: malformed specialist schedule, specialist=%d, date=%s, degraded to closed: %v",
				req.SpecialistID, req.Date.Format(domain.DateFormat), err)
		}
	}
}

// nowIn возвращает текущее время в часовом поясе организации
func (uc *UseCase) nowIn(org *directoryClient.Organization) time.Time {
	now := uc.timeProvider.Now()

	loc, err := time.LoadLocation(org.Timezone)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid timezone %q for org=%d, using server time", org.Timezone, org.ID)
		return now
	}

	return now.In(loc)
}

func (uc *UseCase) emptyResponse(req *Request, durationMinutes int) *Response {
	return uc.toResponse(req, durationMinutes, []types.TimeString{})
}

func (uc *UseCase) toResponse(req *Request, durationMinutes int, starts []types.TimeString) *Response {
	slots := make([]Slot, len(starts))
	for i, start := range starts {
		slots[i] = Slot{StartTime: start, DurationMinutes: durationMinutes}
	}

	return &Response{
		Date:            req.Date,
		OrganizationID:  req.OrganizationID,
		SpecialistID:    req.SpecialistID,
		ServiceID:       req.ServiceID,
		DurationMinutes: durationMinutes,
		Slots:           slots,
	}
}
