package schedule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	"github.com/vmezhova/SLN-BookingEngine/pkg/dbmetrics"
	"github.com/vmezhova/SLN-BookingEngine/pkg/psqlbuilder"
	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

// Repository репозиторий недельных расписаний
//
// Расписания хранятся построчно: по одной строке на день недели
// (weekday 0-6, воскресенье = 0). Фиксированная нумерация вместо
// свободных имён дней - см. схему в migrations.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetOrganizationWeek получает недельное расписание организации
// Возвращает ErrScheduleNotConfigured, если расписание не задано
func (r *Repository) GetOrganizationWeek(ctx context.Context, organizationID int64) (*domain.WeeklySchedule, error) {
	return r.getWeek(ctx, "organization_schedules", "organization_id", organizationID)
}

// GetSpecialistWeek получает недельное расписание мастера
// ErrScheduleNotConfigured означает полное наследование расписания организации
func (r *Repository) GetSpecialistWeek(ctx context.Context, specialistID int64) (*domain.WeeklySchedule, error) {
	return r.getWeek(ctx, "specialist_schedules", "specialist_id", specialistID)
}

func (r *Repository) getWeek(ctx context.Context, table, ownerColumn string, ownerID int64) (*domain.WeeklySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"weekday",
		"is_open",
		"open_time",
		"close_time",
	).
		From(table).
		Where(squirrel.Eq{ownerColumn: ownerID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getWeek - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getWeek - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	var week domain.WeeklySchedule
	found := false

	for rows.Next() {
		var weekday int
		var isOpen bool
		var openTime, closeTime sql.NullString

		if err := rows.Scan(&weekday, &isOpen, &openTime, &closeTime); err != nil {
			return nil, fmt.Errorf("%w: getWeek - scan day: %w", ErrScanRow, err)
		}

		if weekday < 0 || weekday > 6 {
			// Сломанная строка: день деградирует до закрытого, не до ошибки
			continue
		}

		// Времена не валидируются здесь: resolver деградирует сломанный день до Closed
		week[weekday] = domain.DaySchedule{
			IsOpen: isOpen,
			Open:   trimTime(openTime),
			Close:  trimTime(closeTime),
		}
		found = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getWeek - rows error: %w", ErrScanRow, err)
	}

	if !found {
		return nil, ErrScheduleNotConfigured
	}

	return &week, nil
}

// trimTime приводит значение колонки TIME ("HH:MM:SS") к "HH:MM" без валидации
func trimTime(v sql.NullString) types.TimeString {
	if !v.Valid {
		return ""
	}
	s := v.String
	if len(s) > 5 {
		s = s[:5]
	}
	return types.TimeString(s)
}
