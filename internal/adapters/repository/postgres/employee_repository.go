package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/karyawan-web/internal/core/employee"
	pgdb "github.com/ogurasousui/karyawan-web/internal/platform/db/postgres"
)

const (
	employeeCheckViolationCode    = "23514"
	employeeStringTruncationCode  = "22001"
	employeeNumericOutOfRangeCode = "22003"
	employeeColumns               = "id, name, position, salary, created_at, updated_at"
	employeeSearchCondition       = "(name ILIKE %[1]s OR position ILIKE %[1]s)"
	employeeTieBreaker            = "id ASC"
	likeEscaper                   = `\`
)

const (
	insertEmployeeSQL = `
        INSERT INTO employees (name, position, salary, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + employeeColumns

	updateEmployeeSQL = `
        UPDATE employees
           SET name = $1,
               position = $2,
               salary = $3,
               updated_at = $4
         WHERE id = $5
        RETURNING ` + employeeColumns

	deleteEmployeeSQL = `DELETE FROM employees WHERE id = $1`

	findEmployeeByIDSQL = `
        SELECT ` + employeeColumns + `
          FROM employees
         WHERE id = $1
         LIMIT 1`
)

// ソート項目と列の対応表。ORDER BY にはこの表の値以外を埋め込まない。
var employeeSortColumns = map[employee.SortField]string{
	employee.SortByID:        "id",
	employee.SortByName:      "name",
	employee.SortByPosition:  "position",
	employee.SortBySalary:    "salary",
	employee.SortByCreatedAt: "created_at",
	employee.SortByUpdatedAt: "updated_at",
}

var likeReplacer = strings.NewReplacer(likeEscaper, likeEscaper+likeEscaper, "%", likeEscaper+"%", "_", likeEscaper+"_")

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
	row := exec.QueryRow(ctx, insertEmployeeSQL,
		e.Name,
		e.Position,
		e.Salary,
		e.CreatedAt,
		e.UpdatedAt,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update は社員の 3 項目を置き換えます。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, updateEmployeeSQL,
		e.Name,
		e.Position,
		e.Salary,
		e.UpdatedAt,
		e.ID,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// Delete は社員を削除します。
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, deleteEmployeeSQL, id)
	if err != nil {
		return translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, findEmployeeByIDSQL, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// List は検索・並び替え・ページングを適用して社員を取得します。
func (r *EmployeeRepository) List(ctx context.Context, filter employee.ListEmployeesFilter) ([]*employee.Employee, error) {
	if filter.Limit <= 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("postgres: invalid window limit=%d offset=%d", filter.Limit, filter.Offset)
	}

	query, args, err := buildListEmployeesQuery(filter)
	if err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0, filter.Limit)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

// Count は検索条件に一致する社員数を返します。
func (r *EmployeeRepository) Count(ctx context.Context, filter employee.ListEmployeesFilter) (int, error) {
	query, args := buildCountEmployeesQuery(filter)

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var total int64
	if err := exec.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, translateEmployeePgError(err)
	}
	return int(total), nil
}

func buildSearchClause(search string, args []any) (string, []any) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", args
	}
	args = append(args, "%"+likeReplacer.Replace(search)+"%")
	placeholder := "$" + strconv.Itoa(len(args))
	return " WHERE " + fmt.Sprintf(employeeSearchCondition, placeholder), args
}

func buildListEmployeesQuery(filter employee.ListEmployeesFilter) (string, []any, error) {
	column, ok := employeeSortColumns[filter.SortField]
	if !ok {
		return "", nil, fmt.Errorf("sort field %q: %w", filter.SortField, employee.ErrInvalidSortField)
	}

	direction := "ASC"
	switch filter.SortOrder {
	case employee.SortAsc:
	case employee.SortDesc:
		direction = "DESC"
	default:
		return "", nil, fmt.Errorf("sort order %q: %w", filter.SortOrder, employee.ErrInvalidSortOrder)
	}

	args := make([]any, 0, 3)
	whereClause, args := buildSearchClause(filter.Search, args)

	args = append(args, filter.Limit)
	limitPlaceholder := "$" + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	offsetPlaceholder := "$" + strconv.Itoa(len(args))

	orderBy := column + " " + direction
	if column != "id" {
		orderBy += ", " + employeeTieBreaker
	}

	query := `
        SELECT ` + employeeColumns + `
          FROM employees` + whereClause + `
         ORDER BY ` + orderBy + `
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder

	return query, args, nil
}

func buildCountEmployeesQuery(filter employee.ListEmployeesFilter) (string, []any) {
	whereClause, args := buildSearchClause(filter.Search, nil)
	return `SELECT COUNT(*) FROM employees` + whereClause, args
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var emp employee.Employee

	if err := row.Scan(
		&emp.ID,
		&emp.Name,
		&emp.Position,
		&emp.Salary,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	emp.CreatedAt = emp.CreatedAt.UTC()
	emp.UpdatedAt = emp.UpdatedAt.UTC()
	return &emp, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case employeeCheckViolationCode, employeeStringTruncationCode, employeeNumericOutOfRangeCode:
			return fmt.Errorf("postgres: sqlstate %s: %w", pgErr.Code, employee.ErrConstraintViolation)
		}
	}

	return err
}
