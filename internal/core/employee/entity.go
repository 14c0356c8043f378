package employee

import "time"

// Employee は社員（karyawan）エンティティです。
type Employee struct {
	ID        int64
	Name      string
	Position  string
	Salary    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Page は一覧取得 1 ページ分の結果です。
type Page struct {
	Employees  []*Employee
	Total      int
	Page       int
	PerPage    int
	TotalPages int
	Search     string
	SortField  SortField
	SortOrder  SortOrder
}

// HasPrev は前のページが存在するかを返します。
func (p *Page) HasPrev() bool {
	return p.Page > 1
}

// HasNext は次のページが存在するかを返します。
func (p *Page) HasNext() bool {
	return p.Page < p.TotalPages
}

// From はページ内先頭レコードの通し番号 (1 始まり) を返します。該当なしの場合は 0 です。
func (p *Page) From() int {
	if len(p.Employees) == 0 {
		return 0
	}
	return (p.Page-1)*p.PerPage + 1
}

// To はページ内末尾レコードの通し番号を返します。
func (p *Page) To() int {
	if len(p.Employees) == 0 {
		return 0
	}
	return p.From() + len(p.Employees) - 1
}
