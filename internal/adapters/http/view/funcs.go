package view

import (
	"html/template"
	"net/url"
	"strconv"

	"github.com/ogurasousui/karyawan-web/internal/core/employee"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const employeesPath = "/employees"

var rupiahPrinter = message.NewPrinter(language.Indonesian)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"rupiah":        Rupiah,
		"sortURL":       SortURL,
		"sortIndicator": sortIndicator,
		"pageURL":       PageURL,
		"employeeURL":   employeeURL,
		"inc":           func(n int) int { return n + 1 },
		"dec":           func(n int) int { return n - 1 },
	}
}

// Rupiah は金額をインドネシア式の桁区切りで整形します (例: Rp 5.000.000)。
func Rupiah(v int64) string {
	return rupiahPrinter.Sprintf("Rp %d", v)
}

// SortURL は列見出しのリンク先を返します。現在の並び替え列なら順序を反転します。
func SortURL(p *employee.Page, field string) string {
	order := employee.SortAsc
	if string(p.SortField) == field {
		order = p.SortOrder.Toggle()
	}
	q := listQuery(p.Search, field, string(order), 1)
	return employeesPath + "?" + q.Encode()
}

// PageURL は検索・並び替え条件を保ったままページ n への URL を返します。
func PageURL(p *employee.Page, n int) string {
	q := listQuery(p.Search, string(p.SortField), string(p.SortOrder), n)
	return employeesPath + "?" + q.Encode()
}

func sortIndicator(p *employee.Page, field string) string {
	if string(p.SortField) != field {
		return ""
	}
	if p.SortOrder == employee.SortDesc {
		return "▼"
	}
	return "▲"
}

func employeeURL(id int64, suffix ...string) string {
	u := employeesPath + "/" + strconv.FormatInt(id, 10)
	for _, s := range suffix {
		u += "/" + s
	}
	return u
}

func listQuery(search, field, order string, page int) url.Values {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	q.Set("sortField", field)
	q.Set("sortOrder", order)
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}
