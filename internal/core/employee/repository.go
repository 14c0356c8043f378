package employee

import "context"

// Repository は社員永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Employee, error)
	List(ctx context.Context, filter ListEmployeesFilter) ([]*Employee, error)
	Count(ctx context.Context, filter ListEmployeesFilter) (int, error)
}

// ListEmployeesFilter は一覧取得用フィルタです。Count では Search のみ参照されます。
type ListEmployeesFilter struct {
	Search    string
	SortField SortField
	SortOrder SortOrder
	Limit     int
	Offset    int
}
