package postgres

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/karyawan-web/internal/core/employee"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var employeeColumnNames = []string{"id", "name", "position", "salary", "created_at", "updated_at"}

type stubEmployeeRow struct {
	scanFn func(dest ...interface{}) error
}

func (s stubEmployeeRow) Scan(dest ...interface{}) error {
	return s.scanFn(dest...)
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestScanEmployee_Success(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2024, 1, 1, 9, 0, 0, 0, time.FixedZone("WIB", 7*60*60))
	updatedAt := createdAt.Add(time.Minute)

	row := stubEmployeeRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != 6 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*int64)) = 7
		*(dest[1].(*string)) = "John Doe"
		*(dest[2].(*string)) = "Manager"
		*(dest[3].(*int64)) = 5000000
		*(dest[4].(*time.Time)) = createdAt
		*(dest[5].(*time.Time)) = updatedAt
		return nil
	}}

	emp, err := scanEmployee(row)
	if err != nil {
		t.Fatalf("scanEmployee returned error: %v", err)
	}

	if emp.ID != 7 || emp.Name != "John Doe" || emp.Position != "Manager" || emp.Salary != 5000000 {
		t.Fatalf("unexpected employee: %+v", emp)
	}
	if emp.CreatedAt.Location() != time.UTC || !emp.CreatedAt.Equal(createdAt) {
		t.Fatalf("expected created_at normalized to UTC, got %v", emp.CreatedAt)
	}
}

func TestScanEmployee_NoRows(t *testing.T) {
	t.Parallel()

	row := stubEmployeeRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	_, err := scanEmployee(row)
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestTranslateEmployeePgError(t *testing.T) {
	t.Parallel()

	for _, code := range []string{employeeCheckViolationCode, employeeStringTruncationCode, employeeNumericOutOfRangeCode} {
		pgErr := &pgconn.PgError{Code: code}
		if !errors.Is(translateEmployeePgError(pgErr), employee.ErrConstraintViolation) {
			t.Fatalf("expected sqlstate %s to map to ErrConstraintViolation", code)
		}
	}

	if !errors.Is(translateEmployeePgError(pgx.ErrNoRows), employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrNoRows to map to ErrEmployeeNotFound")
	}

	other := errors.New("other")
	if translateEmployeePgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}

	if translateEmployeePgError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestBuildListEmployeesQuery(t *testing.T) {
	t.Parallel()

	query, args, err := buildListEmployeesQuery(employee.ListEmployeesFilter{
		Search:    "50%_off\\",
		SortField: employee.SortBySalary,
		SortOrder: employee.SortDesc,
		Limit:     10,
		Offset:    20,
	})
	if err != nil {
		t.Fatalf("buildListEmployeesQuery returned error: %v", err)
	}

	if !strings.Contains(query, "WHERE (name ILIKE $1 OR position ILIKE $1)") {
		t.Errorf("missing search clause: %s", query)
	}
	if !strings.Contains(query, "ORDER BY salary DESC, id ASC") {
		t.Errorf("unexpected order clause: %s", query)
	}
	if !strings.Contains(query, "LIMIT $2") || !strings.Contains(query, "OFFSET $3") {
		t.Errorf("unexpected window placeholders: %s", query)
	}
	if len(args) != 3 || args[0] != `%50\%\_off\\%` || args[1] != 10 || args[2] != 20 {
		t.Errorf("unexpected args: %#v", args)
	}

	query, args, err = buildListEmployeesQuery(employee.ListEmployeesFilter{
		SortField: employee.SortByID,
		SortOrder: employee.SortAsc,
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("buildListEmployeesQuery returned error: %v", err)
	}
	if strings.Contains(query, "WHERE") || !strings.Contains(query, "ORDER BY id ASC\n") {
		t.Errorf("unexpected unfiltered query: %s", query)
	}
	if len(args) != 2 {
		t.Errorf("unexpected args: %#v", args)
	}
}

func TestBuildListEmployeesQuery_RejectsUnknownSort(t *testing.T) {
	t.Parallel()

	_, _, err := buildListEmployeesQuery(employee.ListEmployeesFilter{
		SortField: employee.SortField("name; DROP TABLE employees"),
		SortOrder: employee.SortAsc,
		Limit:     10,
	})
	if !errors.Is(err, employee.ErrInvalidSortField) {
		t.Fatalf("expected ErrInvalidSortField, got %v", err)
	}

	_, _, err = buildListEmployeesQuery(employee.ListEmployeesFilter{
		SortField: employee.SortByName,
		SortOrder: employee.SortOrder("sideways"),
		Limit:     10,
	})
	if !errors.Is(err, employee.ErrInvalidSortOrder) {
		t.Fatalf("expected ErrInvalidSortOrder, got %v", err)
	}
}

func TestEmployeeRepository_Create(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(insertEmployeeSQL)).
		WithArgs("John Doe", "Manager", int64(5000000), now, now).
		WillReturnRows(pgxmock.NewRows(employeeColumnNames).
			AddRow(int64(1), "John Doe", "Manager", int64(5000000), now, now))

	created, err := repo.Create(context.Background(), &employee.Employee{
		Name:      "John Doe",
		Position:  "Manager",
		Salary:    5000000,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("expected id 1, got %d", created.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Create_CheckViolation(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(insertEmployeeSQL)).
		WithArgs("John Doe", "Manager", int64(-1), now, now).
		WillReturnError(&pgconn.PgError{Code: employeeCheckViolationCode, ConstraintName: "employees_salary_check"})

	_, err := repo.Create(context.Background(), &employee.Employee{
		Name:      "John Doe",
		Position:  "Manager",
		Salary:    -1,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if !errors.Is(err, employee.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestEmployeeRepository_Update(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(updateEmployeeSQL)).
		WithArgs("Jane Roe", "Director", int64(9000000), now, int64(7)).
		WillReturnRows(pgxmock.NewRows(employeeColumnNames).
			AddRow(int64(7), "Jane Roe", "Director", int64(9000000), created, now))

	updated, err := repo.Update(context.Background(), &employee.Employee{
		ID:        7,
		Name:      "Jane Roe",
		Position:  "Director",
		Salary:    9000000,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.ID != 7 {
		t.Fatalf("expected id 7 to be preserved, got %d", updated.ID)
	}
	if updated.Name != "Jane Roe" || updated.Position != "Director" || updated.Salary != 9000000 {
		t.Fatalf("fields not replaced: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created) || !updated.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected timestamps: %+v", updated)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Update_NotFound(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(updateEmployeeSQL)).
		WithArgs("Updated Name", "Updated Jabatan", int64(6000000), now, int64(99)).
		WillReturnRows(pgxmock.NewRows(employeeColumnNames))

	_, err := repo.Update(context.Background(), &employee.Employee{
		ID:        99,
		Name:      "Updated Name",
		Position:  "Updated Jabatan",
		Salary:    6000000,
		UpdatedAt: now,
	})
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Delete(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(deleteEmployeeSQL)).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteEmployeeSQL)).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := repo.Delete(context.Background(), 5); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound on second delete, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_FindByID(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(findEmployeeByIDSQL)).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(employeeColumnNames).
			AddRow(int64(3), "Bob", "Clerk", int64(3000000), now, now))
	mock.ExpectQuery(regexp.QuoteMeta(findEmployeeByIDSQL)).
		WithArgs(int64(999)).
		WillReturnRows(pgxmock.NewRows(employeeColumnNames))

	found, err := repo.FindByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found.Name != "Bob" || found.Position != "Clerk" {
		t.Fatalf("unexpected employee: %+v", found)
	}

	if _, err := repo.FindByID(context.Background(), 999); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_List_WithSearch(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	filter := employee.ListEmployeesFilter{
		Search:    "clerk",
		SortField: employee.SortByName,
		SortOrder: employee.SortAsc,
		Limit:     10,
		Offset:    0,
	}
	query, _, err := buildListEmployeesQuery(filter)
	if err != nil {
		t.Fatalf("buildListEmployeesQuery returned error: %v", err)
	}

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("%clerk%", 10, 0).
		WillReturnRows(pgxmock.NewRows(employeeColumnNames).
			AddRow(int64(2), "Bob", "Clerk", int64(1), now, now))

	employees, err := repo.List(context.Background(), filter)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(employees) != 1 || employees[0].Name != "Bob" {
		t.Fatalf("unexpected employees: %+v", employees)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_List_InvalidWindow(t *testing.T) {
	t.Parallel()

	repo := NewEmployeeRepository(newMockPool(t))

	if _, err := repo.List(context.Background(), employee.ListEmployeesFilter{SortField: employee.SortByName, SortOrder: employee.SortAsc}); err == nil {
		t.Fatal("expected error for zero limit")
	}
}

func TestEmployeeRepository_Count(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	filter := employee.ListEmployeesFilter{Search: "Manager"}
	query, _ := buildCountEmployeesQuery(filter)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("%Manager%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(25)))

	total, err := repo.Count(context.Background(), filter)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if total != 25 {
		t.Fatalf("expected 25, got %d", total)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
