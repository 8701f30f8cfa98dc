package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/workcard-admin/internal/core/attendance"
	"github.com/ogurasousui/workcard-admin/internal/core/calendar"
	pgdb "github.com/ogurasousui/workcard-admin/internal/platform/db/postgres"
)

// AttendanceRepository は勤務時間とワークカードの PostgreSQL 実装です。
type AttendanceRepository struct {
	pool pgdb.Queryer
}

// NewAttendanceRepository は AttendanceRepository を生成します。
func NewAttendanceRepository(pool pgdb.Queryer) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// ListSiteEmployees は拠点に所属する社員を名前順で返します。非在籍の社員も含みます。
func (r *AttendanceRepository) ListSiteEmployees(ctx context.Context, siteID string) ([]attendance.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, name, status
          FROM employees
         WHERE site_id = $1
         ORDER BY name, id
    `, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []attendance.Employee
	for rows.Next() {
		var (
			e      attendance.Employee
			status string
		)
		if err := rows.Scan(&e.ID, &e.Name, &status); err != nil {
			return nil, err
		}
		e.Active = status == "active"
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// ListHours は拠点・月の勤務時間を日付順で返します。
func (r *AttendanceRepository) ListHours(ctx context.Context, siteID string, ym calendar.YearMonth) ([]attendance.HoursEntry, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT h.employee_id, EXTRACT(DAY FROM h.work_date)::int, h.hours::float8
          FROM work_hours h
          JOIN employees e ON e.id = h.employee_id
         WHERE e.site_id = $1
           AND h.work_date >= $2
           AND h.work_date < $3
         ORDER BY h.work_date, h.employee_id
    `, siteID, ym.FirstDay(), ym.Next().FirstDay())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []attendance.HoursEntry
	for rows.Next() {
		var entry attendance.HoursEntry
		if err := rows.Scan(&entry.EmployeeID, &entry.Day, &entry.Hours); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ListStatuses は拠点・月のワークカードのレビュー状態を社員 ID ごとに返します。
func (r *AttendanceRepository) ListStatuses(ctx context.Context, siteID string, ym calendar.YearMonth) (attendance.StatusMap, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT w.employee_id, w.status
          FROM work_cards w
          JOIN employees e ON e.id = w.employee_id
         WHERE e.site_id = $1
           AND w.month = $2
    `, siteID, ym.FirstDay())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := make(attendance.StatusMap)
	for rows.Next() {
		var employeeID, status string
		if err := rows.Scan(&employeeID, &status); err != nil {
			return nil, err
		}
		statuses[employeeID] = status
	}
	return statuses, rows.Err()
}

// UpsertHours は 1 日分の勤務時間を登録し、既にあれば上書きします。
func (r *AttendanceRepository) UpsertHours(ctx context.Context, record *attendance.HoursRecord) (*attendance.HoursRecord, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO work_hours (employee_id, work_date, hours, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (employee_id, work_date)
        DO UPDATE SET hours = EXCLUDED.hours, updated_at = EXCLUDED.updated_at
        RETURNING employee_id, work_date, hours::float8, updated_at
    `, record.EmployeeID, record.Date, record.Hours, record.UpdatedAt)

	var saved attendance.HoursRecord
	if err := row.Scan(&saved.EmployeeID, &saved.Date, &saved.Hours, &saved.UpdatedAt); err != nil {
		return nil, translateAttendancePgError(err)
	}
	saved.Date = saved.Date.UTC()
	return &saved, nil
}

// DeleteHours は 1 日分の勤務時間を削除します。
func (r *AttendanceRepository) DeleteHours(ctx context.Context, employeeID string, date time.Time) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM work_hours WHERE employee_id = $1 AND work_date = $2`, employeeID, date)
	if err != nil {
		return translateAttendancePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrHoursNotFound
	}
	return nil
}

// UpsertWorkCard は社員・月のレビュー状態を保存します。
func (r *AttendanceRepository) UpsertWorkCard(ctx context.Context, card *attendance.WorkCard) (*attendance.WorkCard, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO work_cards (employee_id, month, status, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (employee_id, month)
        DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
        RETURNING employee_id, month, status, updated_at
    `, card.EmployeeID, card.YearMonth.FirstDay(), string(card.Status), card.UpdatedAt)

	var (
		saved  attendance.WorkCard
		month  time.Time
		status string
	)
	if err := row.Scan(&saved.EmployeeID, &month, &status, &saved.UpdatedAt); err != nil {
		return nil, translateAttendancePgError(err)
	}
	saved.YearMonth = calendar.CurrentMonth(month.UTC())
	saved.Status = attendance.Category(status)
	return &saved, nil
}

func translateAttendancePgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return attendance.ErrEmployeeNotFound
	}
	if pgErr, ok := pgError(err); ok {
		switch pgErr.Code {
		case foreignKeyViolationCode:
			return attendance.ErrEmployeeNotFound
		case checkViolationCode:
			if pgErr.ConstraintName == "work_cards_status_check" {
				return attendance.ErrInvalidStatus
			}
			return attendance.ErrInvalidHours
		}
	}
	return err
}
