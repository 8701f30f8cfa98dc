package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/workcard-admin/internal/core/employee"
	"github.com/ogurasousui/workcard-admin/internal/core/paging"
	pgdb "github.com/ogurasousui/workcard-admin/internal/platform/db/postgres"
)

const employeeColumns = `id, site_id, employee_code, name, status, hired_at, created_at, updated_at`

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員を新規作成します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (id, site_id, employee_code, name, status, hired_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING `+employeeColumns,
		e.ID,
		e.SiteID,
		e.EmployeeCode,
		e.Name,
		string(e.Status),
		nullableDate(e.HiredAt),
		e.CreatedAt,
		e.UpdatedAt,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update は社員情報を更新します。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE employees
           SET site_id = $1,
               employee_code = $2,
               name = $3,
               status = $4,
               hired_at = $5,
               updated_at = $6
         WHERE id = $7
        RETURNING `+employeeColumns,
		e.SiteID,
		e.EmployeeCode,
		e.Name,
		string(e.Status),
		nullableDate(e.HiredAt),
		e.UpdatedAt,
		e.ID,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// Delete は社員を削除します。勤務時間とワークカードも連鎖して削除されます。
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// FindBySiteAndCode は拠点 ID と社員コードで検索します。
func (r *EmployeeRepository) FindBySiteAndCode(ctx context.Context, siteID, employeeCode string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE site_id = $1 AND employee_code = $2
    `, siteID, employeeCode)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// List は拠点の社員一覧を社員コード順で取得します。
func (r *EmployeeRepository) List(ctx context.Context, filter employee.ListEmployeesFilter) ([]*employee.Employee, string, error) {
	if strings.TrimSpace(filter.SiteID) == "" {
		return nil, "", employee.ErrInvalidSiteID
	}
	if filter.Limit <= 0 {
		return nil, "", employee.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", employee.ErrInvalidPageToken
	}

	args := []any{filter.SiteID}
	conditions := []string{"site_id = $1"}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}

	limitPlaceholder := "$" + strconv.Itoa(len(args)+1)
	offsetPlaceholder := "$" + strconv.Itoa(len(args)+2)
	args = append(args, filter.Limit+1, filter.Offset)

	query := `
        SELECT ` + employeeColumns + `
          FROM employees
         WHERE ` + strings.Join(conditions, " AND ") + `
         ORDER BY employee_code, id
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0, filter.Limit+1)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, "", translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, "", translateEmployeePgError(err)
	}

	employees, next := paging.Trim(employees, paging.Page{Limit: filter.Limit, Offset: filter.Offset})
	return employees, next, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		e       employee.Employee
		status  string
		hiredAt sql.NullTime
	)

	if err := row.Scan(
		&e.ID,
		&e.SiteID,
		&e.EmployeeCode,
		&e.Name,
		&status,
		&hiredAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.Status = employee.Status(status)
	if hiredAt.Valid {
		t := hiredAt.Time.UTC()
		date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		e.HiredAt = &date
	}
	return &e, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	if pgErr, ok := pgError(err); ok {
		switch pgErr.Code {
		case uniqueViolationCode:
			return employee.ErrEmployeeCodeAlreadyExists
		case foreignKeyViolationCode:
			return employee.ErrSiteNotFound
		case checkViolationCode:
			return employee.ErrInvalidStatus
		}
	}
	return err
}

func nullableDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}
