package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	scheduleRepo "github.com/vmezhova/SLN-BookingEngine/internal/infra/storage/schedule"
	"github.com/vmezhova/SLN-BookingEngine/internal/integrations/directoryservice"
	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

// Заглушки зависимостей

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeDirectory struct {
	org     *directoryservice.Organization
	spec    *directoryservice.Specialist
	service *directoryservice.Service
}

func (f *fakeDirectory) GetOrganization(_ context.Context, _ int64) (*directoryservice.Organization, error) {
	if f.org == nil {
		return nil, directoryservice.ErrOrganizationNotFound
	}
	return f.org, nil
}

func (f *fakeDirectory) GetSpecialist(_ context.Context, _, _ int64) (*directoryservice.Specialist, error) {
	if f.spec == nil {
		return nil, directoryservice.ErrSpecialistNotFound
	}
	return f.spec, nil
}

func (f *fakeDirectory) GetService(_ context.Context, _, _ int64) (*directoryservice.Service, error) {
	if f.service == nil {
		return nil, directoryservice.ErrServiceNotFound
	}
	return f.service, nil
}

type fakeApptRepo struct {
	occupying      []*domain.Appointment
	calls          int
	afterOccupying func()
}

func (f *fakeApptRepo) GetOccupying(_ context.Context, _ int64, _ time.Time) ([]*domain.Appointment, error) {
	f.calls++
	result := f.occupying
	if f.afterOccupying != nil {
		f.afterOccupying()
	}
	return result, nil
}

type fakeScheduleRepo struct {
	orgWeek  *domain.WeeklySchedule
	specWeek *domain.WeeklySchedule
}

func (f *fakeScheduleRepo) GetOrganizationWeek(_ context.Context, _ int64) (*domain.WeeklySchedule, error) {
	if f.orgWeek == nil {
		return nil, scheduleRepo.ErrScheduleNotConfigured
	}
	return f.orgWeek, nil
}

func (f *fakeScheduleRepo) GetSpecialistWeek(_ context.Context, _ int64) (*domain.WeeklySchedule, error) {
	if f.specWeek == nil {
		return nil, scheduleRepo.ErrScheduleNotConfigured
	}
	return f.specWeek, nil
}

// fakeCache повторяет контракт SlotsCache, включая dirty-маркер:
// после инвалидации дня запись пропускается
type fakeCache struct {
	data  map[string][]types.TimeString
	dirty map[string]bool
	sets  int
}

func cacheKey(specialistID int64, date string, serviceID int64) string {
	return date
}

func (f *fakeCache) Get(_ context.Context, specialistID int64, date string, serviceID int64) ([]types.TimeString, error) {
	if slots, ok := f.data[cacheKey(specialistID, date, serviceID)]; ok {
		return slots, nil
	}
	return nil, context.Canceled
}

func (f *fakeCache) Set(_ context.Context, specialistID int64, date string, serviceID int64, slots []types.TimeString) error {
	if f.dirty[cacheKey(specialistID, date, serviceID)] {
		return nil
	}
	f.sets++
	f.data[cacheKey(specialistID, date, serviceID)] = slots
	return nil
}

func (f *fakeCache) invalidate(date string) {
	delete(f.data, date)
	f.dirty[date] = true
}

// Хелперы тестовых данных

var (
	testNow  = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) // вторник
	testDate = time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC) // четверг
)

func workingWeek(open, close string) *domain.WeeklySchedule {
	var week domain.WeeklySchedule
	for d := time.Monday; d <= time.Friday; d++ {
		week.SetDay(d, domain.DaySchedule{IsOpen: true, Open: types.TimeString(open), Close: types.TimeString(close)})
	}
	return &week
}

func testOrg() *directoryservice.Organization {
	return &directoryservice.Organization{
		ID:                     1,
		Name:                   "Салон",
		Timezone:               "UTC",
		SlotGranularityMinutes: 30,
	}
}

func testEnv() (*fakeApptRepo, *fakeScheduleRepo, *fakeDirectory) {
	appts := &fakeApptRepo{}
	schedules := &fakeScheduleRepo{orgWeek: workingWeek("10:00", "13:00")}
	directory := &fakeDirectory{
		org:     testOrg(),
		spec:    &directoryservice.Specialist{ID: 2, OrganizationID: 1, Name: "Мастер", IsActive: true},
		service: &directoryservice.Service{ID: 3, OrganizationID: 1, Name: "Стрижка", DurationMinutes: 60, SpecialistIDs: []int64{2}},
	}
	return appts, schedules, directory
}

func newTestUseCase(appts *fakeApptRepo, schedules *fakeScheduleRepo, directory *fakeDirectory, cache SlotsCache) *UseCase {
	defaultDay := domain.DaySchedule{IsOpen: true, Open: "09:00", Close: "18:00"}
	uc := NewUseCase(appts, schedules, directory, cache, defaultDay, nil, nopLogger{})
	uc.timeProvider = fixedTime{now: testNow}
	return uc
}

func req() *Request {
	return &Request{OrganizationID: 1, SpecialistID: 2, ServiceID: 3, Date: testDate}
}

// Тесты

func TestExecute_GeneratesSlotsForOpenDay(t *testing.T) {
	appts, schedules, directory := testEnv()
	uc := newTestUseCase(appts, schedules, directory, nil)

	resp, err := uc.Execute(context.Background(), req())
	require.NoError(t, err)

	starts := make([]string, len(resp.Slots))
	for i, s := range resp.Slots {
		starts[i] = s.StartTime.String()
		assert.Equal(t, 60, s.DurationMinutes)
	}
	// Окно 10:00-13:00, услуга 60 минут, шаг 30
	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30", "12:00"}, starts)
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestExecute_SpecialistOverrideNarrowsWindow(t *testing.T) {
	appts, schedules, directory := testEnv()
	schedules.specWeek = workingWeek("12:00", "19:00")
	uc := newTestUseCase(appts, schedules, directory, nil)

	resp, err := uc.Execute(context.Background(), req())
	require.NoError(t, err)

	// Пересечение 10:00-13:00 и 12:00-19:00 даёт 12:00-13:00
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "12:00", resp.Slots[0].StartTime.String())
}

func TestExecute_ClaimedSlotDisappears(t *testing.T) {
	appts, schedules, directory := testEnv()
	appts.occupying = []*domain.Appointment{
		{StartTime: "11:00", DurationMinutes: 60, Status: domain.StatusRequested},
	}
	uc := newTestUseCase(appts, schedules, directory, nil)

	resp, err := uc.Execute(context.Background(), req())
	require.NoError(t, err)

	starts := make([]string, len(resp.Slots))
	for i, s := range resp.Slots {
		starts[i] = s.StartTime.String()
	}
	// [11:00, 12:00) занят: 10:30 и 11:30 тоже конфликтуют для услуги в 60 минут
	assert.Equal(t, []string{"10:00", "12:00"}, starts)
}

func TestExecute_ReleasedAppointmentFreesSlot(t *testing.T) {
	appts, schedules, directory := testEnv()
	appts.occupying = []*domain.Appointment{
		{StartTime: "11:00", DurationMinutes: 60, Status: domain.StatusCancelled},
	}
	uc := newTestUseCase(appts, schedules, directory, nil)

	resp, err := uc.Execute(context.Background(), req())
	require.NoError(t, err)

	assert.Len(t, resp.Slots, 5, "отменённая запись не удерживает слот")
}

func TestExecute_ClosedDayReturnsEmptyList(t *testing.T) {
	appts, schedules, directory := testEnv()
	var week domain.WeeklySchedule // все дни закрыты
	schedules.orgWeek = &week
	uc := newTestUseCase(appts, schedules, directory, nil)

	resp, err := uc.Execute(context.Background(), req())
	require.NoError(t, err, "закрытый день - штатный пустой результат")
	assert.Empty(t, resp.Slots)
}

func TestExecute_MissingOrganizationScheduleUsesDefault(t *testing.T) {
	appts, schedules, directory := testEnv()
	schedules.orgWeek = nil
	uc := newTestUseCase(appts, schedules, directory, nil)

	resp, err := uc.Execute(context.Background(), req())
	require.NoError(t, err)

	// Дефолтное окно 09:00-18:00, услуга 60 минут, шаг 30: 09:00..17:00
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime.String())
	assert.Equal(t, "17:00", resp.Slots[len(resp.Slots)-1].StartTime.String())
}

func TestExecute_PastDateReturnsEmptyList(t *testing.T) {
	appts, schedules, directory := testEnv()
	uc := newTestUseCase(appts, schedules, directory, nil)

	pastReq := req()
	pastReq.Date = time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	resp, err := uc.Execute(context.Background(), pastReq)
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, 0, appts.calls, "для прошедшей даты занятость не запрашивается")
}

func TestExecute_InactiveSpecialist(t *testing.T) {
	appts, schedules, directory := testEnv()
	directory.spec.IsActive = false
	uc := newTestUseCase(appts, schedules, directory, nil)

	_, err := uc.Execute(context.Background(), req())
	assert.ErrorIs(t, err, ErrSpecialistInactive)
}

func TestExecute_ServiceNotOffered(t *testing.T) {
	appts, schedules, directory := testEnv()
	directory.service.SpecialistIDs = []int64{99}
	uc := newTestUseCase(appts, schedules, directory, nil)

	_, err := uc.Execute(context.Background(), req())
	assert.ErrorIs(t, err, ErrServiceNotOffered)
}

func TestExecute_CacheHitSkipsRecomputation(t *testing.T) {
	appts, schedules, directory := testEnv()
	cache := &fakeCache{data: map[string][]types.TimeString{
		testDate.Format(domain.DateFormat): {"10:00", "10:30"},
	}}
	uc := newTestUseCase(appts, schedules, directory, cache)

	resp, err := uc.Execute(context.Background(), req())
	require.NoError(t, err)

	assert.Len(t, resp.Slots, 2)
	assert.Equal(t, 0, appts.calls, "при попадании в кэш занятость не запрашивается")
}

func TestExecute_ClaimDuringRecomputeDoesNotResurrectSlot(t *testing.T) {
	appts, schedules, directory := testEnv()
	cache := &fakeCache{data: map[string][]types.TimeString{}, dirty: map[string]bool{}}
	dateStr := testDate.Format(domain.DateFormat)

	// Claim фиксируется и инвалидирует день, пока этот читатель ещё
	// считает доступность по уже прочитанной занятости
	appts.afterOccupying = func() {
		appts.afterOccupying = nil
		appts.occupying = []*domain.Appointment{
			{StartTime: "11:00", DurationMinutes: 60, Status: domain.StatusRequested},
		}
		cache.invalidate(dateStr)
	}
	uc := newTestUseCase(appts, schedules, directory, cache)

	resp, err := uc.Execute(context.Background(), req())
	require.NoError(t, err)

	starts := make([]string, len(resp.Slots))
	for i, s := range resp.Slots {
		starts[i] = s.StartTime.String()
	}
	// Сам гонщик ещё видит слот, но его устаревший список в кэш не попал
	assert.Contains(t, starts, "11:00")
	assert.Equal(t, 0, cache.sets)

	// Следующий запрос пересчитывает занятость и слота уже не видит
	resp2, err := uc.Execute(context.Background(), req())
	require.NoError(t, err)
	assert.Equal(t, 2, appts.calls)

	starts2 := make([]string, len(resp2.Slots))
	for i, s := range resp2.Slots {
		starts2[i] = s.StartTime.String()
	}
	assert.NotContains(t, starts2, "11:00")
}

func TestExecute_CacheMissStoresResult(t *testing.T) {
	appts, schedules, directory := testEnv()
	cache := &fakeCache{data: map[string][]types.TimeString{}}
	uc := newTestUseCase(appts, schedules, directory, cache)

	_, err := uc.Execute(context.Background(), req())
	require.NoError(t, err)

	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, appts.calls)
}
