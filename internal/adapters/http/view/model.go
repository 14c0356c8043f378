package view

import (
	"strconv"

	"github.com/ogurasousui/karyawan-web/internal/adapters/http/session"
	"github.com/ogurasousui/karyawan-web/internal/core/employee"
)

// Layout は全ページ共通の表示データです。
type Layout struct {
	Title     string
	Flash     session.Flash
	CSRFToken string
}

// IndexPage は一覧ページの表示データです。
type IndexPage struct {
	Layout
	Page *employee.Page
}

// FormPage は登録・編集フォームの表示データです。
type FormPage struct {
	Layout
	Action   string
	Method   string
	Employee *employee.Employee
	Form     FormValues
}

// ShowPage は詳細ページの表示データです。
type ShowPage struct {
	Layout
	Employee *employee.Employee
}

// ErrorPage はエラーページの表示データです。
type ErrorPage struct {
	Layout
	Status  int
	Message string
}

// FormValues はフォームに再表示する入力値です。
type FormValues struct {
	Name     string
	Position string
	Salary   string
}

// NewFormValues は直前の入力値を優先し、なければ既存レコードの値でフォームを埋めます。
func NewFormValues(old map[string]string, emp *employee.Employee) FormValues {
	var fv FormValues
	if emp != nil {
		fv = FormValues{
			Name:     emp.Name,
			Position: emp.Position,
			Salary:   strconv.FormatInt(emp.Salary, 10),
		}
	}
	if len(old) == 0 {
		return fv
	}
	if v, ok := old[employee.FieldName]; ok {
		fv.Name = v
	}
	if v, ok := old[employee.FieldPosition]; ok {
		fv.Position = v
	}
	if v, ok := old[employee.FieldSalary]; ok {
		fv.Salary = v
	}
	return fv
}
