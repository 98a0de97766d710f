package create_appointment

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	appointmentRepo "github.com/vmezhova/SLN-BookingEngine/internal/infra/storage/appointment"
	scheduleRepo "github.com/vmezhova/SLN-BookingEngine/internal/infra/storage/schedule"
	"github.com/vmezhova/SLN-BookingEngine/internal/integrations/directoryservice"
	"github.com/vmezhova/SLN-BookingEngine/pkg/ptr"
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

// memoryApptRepo хранит записи в памяти и повторяет поведение частичного
// уникального индекса занятости
type memoryApptRepo struct {
	mu     sync.Mutex
	nextID int64
	appts  []*domain.Appointment
}

type occupiedKey struct {
	specialistID int64
	date         string
	start        types.TimeString
}

func (r *memoryApptRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := occupiedKey{appt.SpecialistID, appt.Date.Format(domain.DateFormat), appt.StartTime}
	for _, existing := range r.appts {
		if !existing.Occupies() {
			continue
		}
		existingKey := occupiedKey{existing.SpecialistID, existing.Date.Format(domain.DateFormat), existing.StartTime}
		if existingKey == key {
			return nil, appointmentRepo.ErrSlotTaken
		}
	}

	r.nextID++
	stored := *appt
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.appts = append(r.appts, &stored)

	result := stored
	return &result, nil
}

func (r *memoryApptRepo) GetOccupying(_ context.Context, specialistID int64, date time.Time) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dateStr := date.Format(domain.DateFormat)
	out := make([]*domain.Appointment, 0)
	for _, appt := range r.appts {
		if appt.SpecialistID == specialistID && appt.Date.Format(domain.DateFormat) == dateStr && appt.Occupies() {
			out = append(out, appt)
		}
	}
	return out, nil
}

// mutexTxManager повторяет смысл сериализуемой транзакции в тестах:
// проверка занятости и вставка выполняются под одной блокировкой
type mutexTxManager struct {
	mu sync.Mutex
}

func (m *mutexTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type recordingCache struct {
	mu            sync.Mutex
	invalidations []string
}

func (c *recordingCache) InvalidateDay(_ context.Context, specialistID int64, date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations = append(c.invalidations, fmt.Sprintf("%d:%s", specialistID, date))
	return nil
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

func testEnv() (*memoryApptRepo, *fakeScheduleRepo, *fakeDirectory) {
	repo := &memoryApptRepo{}
	schedules := &fakeScheduleRepo{orgWeek: workingWeek("09:00", "18:00")}
	directory := &fakeDirectory{
		org:     &directoryservice.Organization{ID: 1, Name: "Салон", Timezone: "UTC", SlotGranularityMinutes: 30},
		spec:    &directoryservice.Specialist{ID: 2, OrganizationID: 1, Name: "Мастер", IsActive: true},
		service: &directoryservice.Service{ID: 3, OrganizationID: 1, Name: "Стрижка", DurationMinutes: 60, SpecialistIDs: []int64{2}},
	}
	return repo, schedules, directory
}

func newTestUseCase(repo *memoryApptRepo, schedules *fakeScheduleRepo, directory *fakeDirectory, cache SlotsCache) *UseCase {
	defaultDay := domain.DaySchedule{IsOpen: true, Open: "09:00", Close: "18:00"}
	uc := NewUseCase(repo, schedules, directory, cache, &mutexTxManager{}, defaultDay, nil, nopLogger{})
	uc.timeProvider = fixedTime{now: testNow}
	return uc
}

func claimReq(customerID int64, start string) *Request {
	return &Request{
		CustomerID:      customerID,
		OrganizationID:  1,
		SpecialistID:    2,
		ServiceID:       3,
		Date:            testDate,
		StartTime:       types.TimeString(start),
		DurationMinutes: 60,
	}
}

// Тесты

func TestExecute_SuccessfulClaim(t *testing.T) {
	repo, schedules, directory := testEnv()
	cache := &recordingCache{}
	uc := newTestUseCase(repo, schedules, directory, cache)

	resp, err := uc.Execute(context.Background(), claimReq(100, "10:00"))
	require.NoError(t, err)

	assert.NotZero(t, resp.ID)
	assert.Equal(t, string(domain.StatusRequested), resp.Status)
	assert.Equal(t, "10:00", resp.StartTime.String())
	assert.Equal(t, 60, resp.DurationMinutes, "длительность берётся из каталога услуг")
	assert.Equal(t, "Стрижка", resp.ServiceName)

	require.Len(t, cache.invalidations, 1)
	assert.Equal(t, "2:2026-09-10", cache.invalidations[0])
}

func TestExecute_SecondClaimOnSameSlotConflicts(t *testing.T) {
	repo, schedules, directory := testEnv()
	uc := newTestUseCase(repo, schedules, directory, nil)

	_, err := uc.Execute(context.Background(), claimReq(100, "10:00"))
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), claimReq(101, "10:00"))
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_OverlappingClaimConflicts(t *testing.T) {
	repo, schedules, directory := testEnv()
	uc := newTestUseCase(repo, schedules, directory, nil)

	_, err := uc.Execute(context.Background(), claimReq(100, "10:00"))
	require.NoError(t, err)

	// [10:30, 11:30) пересекается с занятым [10:00, 11:00)
	_, err = uc.Execute(context.Background(), claimReq(101, "10:30"))
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_AdjacentClaimSucceeds(t *testing.T) {
	repo, schedules, directory := testEnv()
	uc := newTestUseCase(repo, schedules, directory, nil)

	_, err := uc.Execute(context.Background(), claimReq(100, "10:00"))
	require.NoError(t, err)

	// [11:00, 12:00) граничит с [10:00, 11:00) - не конфликт
	_, err = uc.Execute(context.Background(), claimReq(101, "11:00"))
	assert.NoError(t, err)
}

func TestExecute_ConcurrentClaimsExactlyOneWins(t *testing.T) {
	repo, schedules, directory := testEnv()
	uc := newTestUseCase(repo, schedules, directory, nil)

	const attempts = 20

	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), claimReq(int64(100+i), "14:00"))
			results[i] = err
		}(i)
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, ErrSlotTaken):
			conflicts++
		}
	}

	assert.Equal(t, 1, wins, "ровно один конкурентный claim выигрывает")
	assert.Equal(t, attempts-1, conflicts)

	occupying, err := repo.GetOccupying(context.Background(), 2, testDate)
	require.NoError(t, err)
	assert.Len(t, occupying, 1, "в хранилище ровно одна запись на слот")
}

func TestExecute_StaleDurationRejected(t *testing.T) {
	repo, schedules, directory := testEnv()
	uc := newTestUseCase(repo, schedules, directory, nil)

	req := claimReq(100, "10:00")
	req.DurationMinutes = 45 // клиент видел старую длительность

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaleDuration)
}

func TestExecute_OffGridTimeRejected(t *testing.T) {
	repo, schedules, directory := testEnv()
	uc := newTestUseCase(repo, schedules, directory, nil)

	_, err := uc.Execute(context.Background(), claimReq(100, "10:17"))
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_SlotOutsideWindowRejected(t *testing.T) {
	repo, schedules, directory := testEnv()
	uc := newTestUseCase(repo, schedules, directory, nil)

	// [17:30, 18:30) вылезает за окно 09:00-18:00
	_, err := uc.Execute(context.Background(), claimReq(100, "17:30"))
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_ClosedDayRejected(t *testing.T) {
	repo, schedules, directory := testEnv()
	var week domain.WeeklySchedule // все дни закрыты
	schedules.orgWeek = &week
	uc := newTestUseCase(repo, schedules, directory, nil)

	_, err := uc.Execute(context.Background(), claimReq(100, "10:00"))
	assert.ErrorIs(t, err, ErrDayClosed)
}

func TestExecute_TooLateToBookToday(t *testing.T) {
	repo, schedules, directory := testEnv()
	uc := newTestUseCase(repo, schedules, directory, nil)

	// Сегодня, сейчас 12:00, буфер 30 минут: 12:00 уже недоступен
	req := claimReq(100, "12:00")
	req.Date = testNow

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_ExplicitBufferOverridesGridStep(t *testing.T) {
	repo, schedules, directory := testEnv()
	directory.org.BookingBufferMinutes = ptr.Ptr(120)
	uc := newTestUseCase(repo, schedules, directory, nil)

	// Буфер 2 часа: при текущем времени 12:00 слот 13:00 уже недоступен
	req := claimReq(100, "13:00")
	req.Date = testNow

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_TodayAfterBufferSucceeds(t *testing.T) {
	repo, schedules, directory := testEnv()
	uc := newTestUseCase(repo, schedules, directory, nil)

	req := claimReq(100, "14:00")
	req.Date = testNow

	_, err := uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_PastDateRejected(t *testing.T) {
	repo, schedules, directory := testEnv()
	uc := newTestUseCase(repo, schedules, directory, nil)

	req := claimReq(100, "10:00")
	req.Date = time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_InactiveSpecialistRejected(t *testing.T) {
	repo, schedules, directory := testEnv()
	directory.spec.IsActive = false
	uc := newTestUseCase(repo, schedules, directory, nil)

	_, err := uc.Execute(context.Background(), claimReq(100, "10:00"))
	assert.ErrorIs(t, err, ErrSpecialistInactive)
}

func TestExecute_CancelledAppointmentFreesSlotForNewClaim(t *testing.T) {
	repo, schedules, directory := testEnv()
	uc := newTestUseCase(repo, schedules, directory, nil)

	resp, err := uc.Execute(context.Background(), claimReq(100, "10:00"))
	require.NoError(t, err)

	// Освобождаем слот
	repo.mu.Lock()
	for _, appt := range repo.appts {
		if appt.ID == resp.ID {
			appt.Status = domain.StatusCancelled
		}
	}
	repo.mu.Unlock()

	_, err = uc.Execute(context.Background(), claimReq(101, "10:00"))
	assert.NoError(t, err, "отменённая запись не блокирует повторный claim")
}
