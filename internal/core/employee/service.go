package employee

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// PageSize は一覧 1 ページあたりの件数です。
const PageSize = 10

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// QueryUseCase は一覧・参照系のユースケースです。
type QueryUseCase interface {
	ListEmployees(ctx context.Context, in ListEmployeesInput) (*Page, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
}

// WriteUseCase は登録・更新・削除のユースケースです。
type WriteUseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	QueryUseCase
	WriteUseCase
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// CreateEmployeeInput は社員作成時の入力です。値はフォーム送信値そのままを受け取ります。
type CreateEmployeeInput struct {
	Name     string
	Position string
	Salary   string
}

// UpdateEmployeeInput は社員更新時の入力です。3 項目すべてを置き換えます。
type UpdateEmployeeInput struct {
	ID       int64
	Name     string
	Position string
	Salary   string
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	ID int64
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID int64
}

// ListEmployeesInput は一覧取得時の入力です。
type ListEmployeesInput struct {
	Search    string
	SortField string
	SortOrder string
	Page      int
}

// CreateEmployee は新しい社員を作成します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	fields, err := validateFields(in.Name, in.Position, in.Salary)
	if err != nil {
		return nil, err
	}

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()
		emp := &Employee{
			Name:      fields.name,
			Position:  fields.position,
			Salary:    fields.salary,
			CreatedAt: now,
			UpdatedAt: now,
		}

		result, err := s.repo.Create(txCtx, emp)
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateEmployee は社員情報を置き換えます。存在確認を検証より先に行います。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		fields, err := validateFields(in.Name, in.Position, in.Salary)
		if err != nil {
			return err
		}

		existing.Name = fields.name
		existing.Position = fields.position
		existing.Salary = fields.salary
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteEmployee は社員を削除します。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error {
	if in.ID <= 0 {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, in.ID)
	})
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListEmployees は検索・並び替え・ページングを適用した社員一覧を返します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) (*Page, error) {
	sortField, err := ParseSortField(in.SortField)
	if err != nil {
		return nil, fmt.Errorf("sort field %q: %w", in.SortField, err)
	}

	sortOrder, err := ParseSortOrder(in.SortOrder)
	if err != nil {
		return nil, fmt.Errorf("sort order %q: %w", in.SortOrder, err)
	}

	page := in.Page
	if page < 1 {
		page = 1
	}

	filter := ListEmployeesFilter{
		Search:    strings.TrimSpace(in.Search),
		SortField: sortField,
		SortOrder: sortOrder,
		Limit:     PageSize,
	}

	var (
		employees []*Employee
		total     int
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		count, err := s.repo.Count(txCtx, filter)
		if err != nil {
			return err
		}
		total = count

		// 最終ページより後ろは件数だけ返す。オフセットはページが範囲内のときだけ計算する。
		if total == 0 || page > totalPages(total, PageSize) {
			employees = []*Employee{}
			return nil
		}
		filter.Offset = (page - 1) * PageSize

		found, err := s.repo.List(txCtx, filter)
		if err != nil {
			return err
		}
		employees = found
		return nil
	}); err != nil {
		return nil, err
	}

	return &Page{
		Employees:  employees,
		Total:      total,
		Page:       page,
		PerPage:    PageSize,
		TotalPages: totalPages(total, PageSize),
		Search:     filter.Search,
		SortField:  sortField,
		SortOrder:  sortOrder,
	}, nil
}

func totalPages(total, perPage int) int {
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}
