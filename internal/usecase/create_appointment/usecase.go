package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	appointmentRepo "github.com/vmezhova/SLN-BookingEngine/internal/infra/storage/appointment"
	scheduleRepo "github.com/vmezhova/SLN-BookingEngine/internal/infra/storage/schedule"
	directoryClient "github.com/vmezhova/SLN-BookingEngine/internal/integrations/directoryservice"
	"github.com/vmezhova/SLN-BookingEngine/internal/schedule"
	"github.com/vmezhova/SLN-BookingEngine/pkg/metrics"
	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

// UseCase use case создания записи - атомарный claim слота.
//
// Источник этой переделки: исходная система пересчитывала доступность в UI
// и делала обычный insert, так что два конкурентных клиента могли занять
// один слот. Здесь проверка и вставка выполняются в одной сериализуемой
// транзакции с блокировкой занятости (FOR UPDATE), а частичный уникальный
// индекс в БД превращает остаточную гонку в конфликт, а не в дубль.
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	directory       DirectoryClient
	cache           SlotsCache // nil = кэширование выключено
	txManager       TransactionManager
	defaultDay      domain.DaySchedule
	timeProvider    TimeProvider
	metrics         *metrics.Metrics // nil = метрики выключены
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	directory DirectoryClient,
	cache SlotsCache,
	txManager TransactionManager,
	defaultDay domain.DaySchedule,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		directory:       directory,
		cache:           cache,
		txManager:       txManager,
		defaultDay:      defaultDay,
		timeProvider:    &RealTimeProvider{},
		metrics:         m,
		logger:          logger,
	}
}

// Execute выполняет атомарный claim слота.
//
// Времена, присланные клиентом, не считаются свежими: внутри транзакции
// кандидаты пересчитываются заново, и только присутствующий в свежем списке
// слот может быть занят. При ErrSlotTaken клиент обязан перезапросить слоты -
// сервис никогда не подставляет другое время молча и не повторяет вставку.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: customer=%d, org=%d, specialist=%d, service=%d, date=%s, time=%s",
		req.CustomerID, req.OrganizationID, req.SpecialistID, req.ServiceID,
		req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем организацию
	org, err := uc.directory.GetOrganization(ctx, req.OrganizationID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrOrganizationNotFound) {
			uc.logger.Warn("CreateAppointment: organization id=%d not found", req.OrganizationID)
			return nil, ErrOrganizationNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get organization id=%d: %v", req.OrganizationID, err)
		return nil, fmt.Errorf("%w: failed to get organization: %v", ErrInternal, err)
	}

	// 3. Текущее время по стенным часам организации
	now := uc.nowIn(org)

	// 4. Мастер принадлежит организации и активен
	spec, err := uc.directory.GetSpecialist(ctx, req.OrganizationID, req.SpecialistID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrSpecialistNotFound) {
			uc.logger.Warn("CreateAppointment: specialist id=%d not found", req.SpecialistID)
			return nil, ErrSpecialistNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get specialist id=%d: %v", req.SpecialistID, err)
		return nil, fmt.Errorf("%w: failed to get specialist: %v", ErrInternal, err)
	}
	if err := validateSpecialist(spec, req.OrganizationID); err != nil {
		uc.logger.Warn("CreateAppointment: specialist id=%d rejected: %v", req.SpecialistID, err)
		return nil, err
	}

	// 5. Услуга существует, оказывается мастером, длительность актуальна
	service, err := uc.directory.GetService(ctx, req.OrganizationID, req.ServiceID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if err := validateServiceOffered(service, req.SpecialistID); err != nil {
		uc.logger.Warn("CreateAppointment: service id=%d not offered by specialist id=%d",
			req.ServiceID, req.SpecialistID)
		return nil, err
	}
	if err := validateCanonicalDuration(req, service); err != nil {
		uc.logger.Warn("CreateAppointment: stale duration for service id=%d: %v", req.ServiceID, err)
		return nil, err
	}

	// 6. Дата не в прошлом
	if schedule.IsDateInPast(req.Date, now) {
		uc.logger.Warn("CreateAppointment: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 7. Claim: пересчёт кандидатов, проверка занятости и вставка -
	// одна сериализуемая транзакция
	var result *domain.Appointment

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created, err := uc.claim(txCtx, req, org, service, now)
		if err != nil {
			return err
		}
		result = created
		return nil
	})

	if err != nil {
		uc.observeOutcome(err)
		return nil, err
	}
	uc.observeOutcome(nil)

	// 8. Инвалидируем кэш слотов мастера на эту дату
	// Кэш вспомогательный: ошибка инвалидации логируется, но не откатывает запись
	if uc.cache != nil {
		dateStr := req.Date.Format(domain.DateFormat)
		if err := uc.cache.InvalidateDay(ctx, req.SpecialistID, dateStr); err != nil {
			uc.logger.Warn("CreateAppointment: cache invalidation failed for specialist=%d date=%s: %v",
				req.SpecialistID, dateStr, err)
		}
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	return toResponse(result), nil
}

// claim выполняется внутри сериализуемой транзакции
func (uc *UseCase) claim(
	ctx context.Context,
	req *Request,
	org *directoryClient.Organization,
	service *directoryClient.Service,
	now time.Time,
) (*domain.Appointment, error) {
	// 7.1. Эффективное окно дня
	orgDay, specDay, err := uc.daySchedules(ctx, req.OrganizationID, req.SpecialistID, req.Date.Weekday())
	if err != nil {
		return nil, err
	}

	interval, open := schedule.Resolve(orgDay, specDay)
	if !open {
		uc.logger.Warn("CreateAppointment: no working window, specialist=%d, date=%s",
			req.SpecialistID, req.Date.Format(domain.DateFormat))
		return nil, ErrDayClosed
	}

	// 7.2. Буфер "слишком поздно" проверяем отдельно, чтобы отличать
	// ErrTooLateToBook от ErrInvalidTimeSlot
	if schedule.IsSameDay(req.Date, now) {
		if tooLate(req.StartTime, now, org.Buffer()) {
			uc.logger.Warn("CreateAppointment: too late to book %s (buffer %d min)", req.StartTime, org.Buffer())
			return nil, ErrTooLateToBook
		}
	}

	// 7.3. Свежепересчитанные кандидаты: присланное клиентом время
	// обязано присутствовать в актуальном списке
	candidates := schedule.Generate(interval, org.Granularity(), service.DurationMinutes, req.Date, now, org.Buffer())
	if !containsSlot(candidates, req.StartTime) {
		uc.logger.Warn("CreateAppointment: start %s is not a valid candidate", req.StartTime)
		return nil, ErrInvalidTimeSlot
	}

	// 7.4. Занятость с блокировкой строк (FOR UPDATE)
	occupying, err := uc.appointmentRepo.GetOccupying(ctx, req.SpecialistID, req.Date)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get occupying appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get occupying appointments: %w", ErrInternal, err)
	}

	if schedule.CountOverlapping(req.StartTime, service.DurationMinutes, schedule.BusyIntervals(occupying)) > 0 {
		uc.logger.Warn("CreateAppointment: slot %s already occupied, specialist=%d", req.StartTime, req.SpecialistID)
		return nil, ErrSlotTaken
	}

	// 7.5. Вставка; уникальный индекс занятости страхует от остаточной гонки
	appt := &domain.Appointment{
		OrganizationID:  req.OrganizationID,
		SpecialistID:    req.SpecialistID,
		ServiceID:       req.ServiceID,
		CustomerID:      req.CustomerID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: service.DurationMinutes,
		Status:          domain.StatusRequested,
		// Денормализация данных услуги
		ServiceName:  service.Name,
		ServicePrice: getServicePrice(service),
		// Данные клиента из payload
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
	}

	created, err := uc.appointmentRepo.Create(ctx, appt)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) {
			uc.logger.Warn("CreateAppointment: lost the race for slot %s, specialist=%d", req.StartTime, req.SpecialistID)
			return nil, ErrSlotTaken
		}
		uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
	}

	return created, nil
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
		uc.logger.Error("CreateAppointment: failed to get organization schedule: %v", err)
		return domain.DaySchedule{}, nil, fmt.Errorf("%w: failed to get organization schedule: %w", ErrInternal, err)
	}

	orgDay := uc.defaultDay
	if orgWeek != nil {
		orgDay = orgWeek.Day(weekday)
	}

	specWeek, err := uc.scheduleRepo.GetSpecialistWeek(ctx, specialistID)
	if err != nil && !errors.Is(err, scheduleRepo.ErrScheduleNotConfigured) {
		uc.logger.Error("CreateAppointment: failed to get specialist schedule: %v", err)
		return domain.DaySchedule{}, nil, fmt.Errorf("%w: failed to get specialist schedule: %w", ErrInternal, err)
	}

	var specDay *domain.DaySchedule
	if specWeek != nil {
		day := specWeek.Day(weekday)
		specDay = &day
	}

	return orgDay, specDay, nil
}

// tooLate проверяет нарушение буфера для сегодняшней даты
func tooLate(start types.TimeString, now time.Time, bufferMinutes int) bool {
	minAllowed, err := types.NewTimeString(now).AddMinutes(bufferMinutes)
	if err != nil {
		// Буфер уходит за полночь - сегодня бронировать уже нечего
		return true
	}
	return start.IsBefore(minAllowed)
}

func containsSlot(candidates []types.TimeString, start types.TimeString) bool {
	for _, c := range candidates {
		if c == start {
			return true
		}
	}
	return false
}

// nowIn возвращает текущее время в часовом поясе организации
func (uc *UseCase) nowIn(org *directoryClient.Organization) time.Time {
	now := uc.timeProvider.Now()

	loc, err := time.LoadLocation(org.Timezone)
	if err != nil {
		uc.logger.Warn("CreateAppointment: invalid timezone %q for org=%d, using server time", org.Timezone, org.ID)
		return now
	}

	return now.In(loc)
}

// observeOutcome записывает бизнес-метрики исхода claim
func (uc *UseCase) observeOutcome(err error) {
	if uc.metrics == nil {
		return
	}

	switch {
	case err == nil:
		uc.metrics.AppointmentsClaimed.WithLabelValues("ok").Inc()
	case errors.Is(err, ErrSlotTaken):
		uc.metrics.AppointmentsClaimed.WithLabelValues("conflict").Inc()
		uc.metrics.SlotConflictsTotal.Inc()
	default:
		uc.metrics.AppointmentsClaimed.WithLabelValues("rejected").Inc()
	}
}

func toResponse(appt *domain.Appointment) *Response {
	return &Response{
		ID:              appt.ID,
		OrganizationID:  appt.OrganizationID,
		SpecialistID:    appt.SpecialistID,
		ServiceID:       appt.ServiceID,
		CustomerID:      appt.CustomerID,
		Date:            appt.Date,
		StartTime:       appt.StartTime,
		DurationMinutes: appt.DurationMinutes,
		Status:          string(appt.Status),
		ServiceName:     appt.ServiceName,
		ServicePrice:    appt.ServicePrice,
		CustomerName:    appt.CustomerName,
		CustomerPhone:   appt.CustomerPhone,
		Notes:           appt.Notes,
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
	}
}
