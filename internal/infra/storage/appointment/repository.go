package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	"github.com/vmezhova/SLN-BookingEngine/pkg/dbmetrics"
	"github.com/vmezhova/SLN-BookingEngine/pkg/psqlbuilder"
)

// pgUniqueViolation код ошибки PostgreSQL при нарушении уникального индекса
const pgUniqueViolation = "23505"

var appointmentColumns = []string{
	"id",
	"organization_id",
	"specialist_id",
	"service_id",
	"customer_id",
	"appointment_date",
	"start_time",
	"duration_minutes",
	"status",
	"service_name",
	"service_price",
	"customer_name",
	"customer_phone",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на услуги
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create вставляет новую запись.
//
// Вставка защищена частичным уникальным индексом на
// (specialist_id, appointment_date, start_time) WHERE status IN ('requested', 'confirmed'):
// проигравшая гонку вставка получает ErrSlotTaken, а не дубль записи.
// Если в контексте есть активная транзакция, вставка выполняется в ней.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"organization_id",
			"specialist_id",
			"service_id",
			"customer_id",
			"appointment_date",
			"start_time",
			"duration_minutes",
			"status",
			"service_name",
			"service_price",
			"customer_name",
			"customer_phone",
			"notes",
		).
		Values(
			appt.OrganizationID,
			appt.SpecialistID,
			appt.ServiceID,
			appt.CustomerID,
			appt.Date,
			appt.StartTime,
			appt.DurationMinutes,
			appt.Status,
			appt.ServiceName,
			appt.ServicePrice,
			appt.CustomerName,
			appt.CustomerPhone,
			appt.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	appts, err := r.scanAppointments(rows)
	if err != nil {
		return nil, err
	}
	if len(appts) == 0 {
		return nil, ErrAppointmentNotFound
	}

	return appts[0], nil
}

// GetOccupying получает записи, удерживающие слоты мастера на указанную дату,
// отсортированные по времени начала.
//
// Внутри транзакции строки блокируются (FOR UPDATE) - это точка, через которую
// claim сериализует проверку занятости с последующей вставкой.
func (r *Repository) GetOccupying(ctx context.Context, specialistID int64, date time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	occupying := make([]string, len(domain.OccupyingStatuses))
	for i, s := range domain.OccupyingStatuses {
		occupying[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"specialist_id": specialistID}).
		Where(squirrel.Eq{"appointment_date": date}).
		Where(squirrel.Eq{"status": occupying}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupying - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupying - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// GetByCustomerID получает записи клиента, опционально фильтруя по статусу
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("appointment_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// GetByOrganizationWithFilter получает записи организации с гибкой фильтрацией
// по мастеру, периоду и статусу. По умолчанию записи, освободившие слот
// (completed, cancelled, no_show), не включаются.
func (r *Repository) GetByOrganizationWithFilter(ctx context.Context, filter domain.OrganizationAppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"organization_id": filter.OrganizationID})

	if filter.SpecialistID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"specialist_id": *filter.SpecialistID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeReleased {
		released := make([]string, len(domain.ReleasedStatuses))
		for i, s := range domain.ReleasedStatuses {
			released[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": released})
	}

	// Для одной даты сортируем по времени, для периода - сначала новые
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("appointment_date DESC, start_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrganizationWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrganizationWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// UpdateStatus обновляет статус записи
// Проверка допустимости перехода - ответственность сервисного слоя
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Cancel отменяет запись с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// scanAppointments сканирует строки результата в модели записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appts := make([]*domain.Appointment, 0)

	for rows.Next() {
		var appt domain.Appointment
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(
			&appt.ID,
			&appt.OrganizationID,
			&appt.SpecialistID,
			&appt.ServiceID,
			&appt.CustomerID,
			&appt.Date,
			&appt.StartTime,
			&appt.DurationMinutes,
			&appt.Status,
			&appt.ServiceName,
			&appt.ServicePrice,
			&appt.CustomerName,
			&appt.CustomerPhone,
			&appt.Notes,
			&appt.CancellationReason,
			&appt.CancelledAt,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan appointment: %w", ErrScanRow, err)
		}

		appt.CreatedAt = createdAt.Time
		appt.UpdatedAt = updatedAt.Time
		appts = append(appts, &appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %w", ErrScanRow, err)
	}

	return appts, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	return false
}
