package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ogurasousui/karyawan-web/internal/adapters/http/session"
	"github.com/ogurasousui/karyawan-web/internal/adapters/http/view"
	"github.com/ogurasousui/karyawan-web/internal/core/employee"
	"github.com/ogurasousui/karyawan-web/internal/platform/logger"
)

const (
	employeesPath = "/employees"

	msgCreated = "Employee created successfully."
	msgUpdated = "Employee updated successfully."
	msgDeleted = "Employee deleted successfully."
)

// 旧カラム名 (nama / jabatan / gaji) でも受け付けます。
var formFieldAliases = map[string]string{
	employee.FieldName:     "nama",
	employee.FieldPosition: "jabatan",
	employee.FieldSalary:   "gaji",
}

// EmployeeHandler は社員画面の HTTP ハンドラです。
type EmployeeHandler struct {
	svc   employee.UseCase
	flash *session.Store
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(svc employee.UseCase, flash *session.Store) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, flash: flash}
}

// Register はルートを登録します。
func (h *EmployeeHandler) Register(e *echo.Echo) {
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, employeesPath)
	})

	g := e.Group(employeesPath)
	g.GET("", h.Index)
	g.GET("/new", h.New)
	g.POST("", h.Store)
	g.GET("/:id", h.Show)
	g.GET("/:id/edit", h.Edit)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Destroy)
}

// Index は検索・並び替え・ページ送り付きの一覧を表示します。
func (h *EmployeeHandler) Index(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))

	result, err := h.svc.ListEmployees(c.Request().Context(), employee.ListEmployeesInput{
		Search:    c.QueryParam("search"),
		SortField: c.QueryParam("sortField"),
		SortOrder: c.QueryParam("sortOrder"),
		Page:      page,
	})
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, view.PageEmployeeIndex, view.IndexPage{
		Layout: layout(c, "Employees"),
		Page:   result,
	})
}

// New は登録フォームを表示します。
func (h *EmployeeHandler) New(c echo.Context) error {
	l := layout(c, "Add employee")
	return c.Render(http.StatusOK, view.PageEmployeeCreate, view.FormPage{
		Layout: l,
		Action: employeesPath,
		Method: http.MethodPost,
		Form:   view.NewFormValues(l.Flash.Old, nil),
	})
}

// Store は社員を登録し一覧へリダイレクトします。
func (h *EmployeeHandler) Store(c echo.Context) error {
	old := formInput(c)

	_, err := h.svc.CreateEmployee(c.Request().Context(), employee.CreateEmployeeInput{
		Name:     old[employee.FieldName],
		Position: old[employee.FieldPosition],
		Salary:   old[employee.FieldSalary],
	})

	var verr *employee.ValidationError
	if errors.As(err, &verr) {
		return h.redirectBackWithErrors(c, employeesPath+"/new", verr, old)
	}
	if err != nil {
		return err
	}

	return h.redirectWithSuccess(c, msgCreated)
}

// Show は社員詳細を表示します。
func (h *EmployeeHandler) Show(c echo.Context) error {
	emp, err := h.findEmployee(c)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, view.PageEmployeeShow, view.ShowPage{
		Layout:   layout(c, emp.Name),
		Employee: emp,
	})
}

// Edit は編集フォームを表示します。
func (h *EmployeeHandler) Edit(c echo.Context) error {
	emp, err := h.findEmployee(c)
	if err != nil {
		return err
	}

	l := layout(c, "Edit employee")
	return c.Render(http.StatusOK, view.PageEmployeeEdit, view.FormPage{
		Layout:   l,
		Action:   employeePath(emp.ID),
		Method:   http.MethodPut,
		Employee: emp,
		Form:     view.NewFormValues(l.Flash.Old, emp),
	})
}

// Update は社員情報を更新し一覧へリダイレクトします。
func (h *EmployeeHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	old := formInput(c)
	_, err = h.svc.UpdateEmployee(c.Request().Context(), employee.UpdateEmployeeInput{
		ID:       id,
		Name:     old[employee.FieldName],
		Position: old[employee.FieldPosition],
		Salary:   old[employee.FieldSalary],
	})

	var verr *employee.ValidationError
	if errors.As(err, &verr) {
		return h.redirectBackWithErrors(c, employeePath(id)+"/edit", verr, old)
	}
	if err != nil {
		return err
	}

	return h.redirectWithSuccess(c, msgUpdated)
}

// Destroy は社員を削除し一覧へリダイレクトします。
func (h *EmployeeHandler) Destroy(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteEmployee(c.Request().Context(), employee.DeleteEmployeeInput{ID: id}); err != nil {
		return err
	}

	return h.redirectWithSuccess(c, msgDeleted)
}

func (h *EmployeeHandler) findEmployee(c echo.Context) (*employee.Employee, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	return h.svc.GetEmployee(c.Request().Context(), employee.GetEmployeeInput{ID: id})
}

func (h *EmployeeHandler) redirectWithSuccess(c echo.Context, msg string) error {
	if err := h.flash.Set(c, session.Flash{Success: msg}); err != nil {
		logger.FromContext(c.Request().Context()).Warn().Err(err).Msg("set success flash")
	}
	return c.Redirect(http.StatusFound, employeesPath)
}

func (h *EmployeeHandler) redirectBackWithErrors(c echo.Context, fallback string, verr *employee.ValidationError, old map[string]string) error {
	f := session.Flash{Errors: verr.Messages(), Old: old}
	if err := h.flash.Set(c, f); err != nil {
		// 入力値が大きすぎる場合はエラーのみ戻す
		f.Old = nil
		if err := h.flash.Set(c, f); err != nil {
			logger.FromContext(c.Request().Context()).Warn().Err(err).Msg("set error flash")
		}
	}
	return c.Redirect(http.StatusFound, backURL(c, fallback))
}

func layout(c echo.Context, title string) view.Layout {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return view.Layout{
		Title:     title,
		Flash:     session.FromContext(c),
		CSRFToken: token,
	}
}

func parseID(c echo.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id %q: %w", raw, employee.ErrEmployeeNotFound)
	}
	return id, nil
}

func formInput(c echo.Context) map[string]string {
	values := make(map[string]string, len(formFieldAliases))
	for field, alias := range formFieldAliases {
		v, ok := formValue(c, field)
		if !ok {
			v, _ = formValue(c, alias)
		}
		values[field] = strings.TrimSpace(v)
	}
	return values
}

func formValue(c echo.Context, key string) (string, bool) {
	if err := c.Request().ParseForm(); err != nil {
		return "", false
	}
	vs, ok := c.Request().PostForm[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// backURL は同一オリジンの Referer を優先し、なければ fallback を返します。
func backURL(c echo.Context, fallback string) string {
	ref := c.Request().Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.Request().Host) || !strings.HasPrefix(u.Path, "/") {
		return fallback
	}
	return u.RequestURI()
}

func employeePath(id int64) string {
	return employeesPath + "/" + strconv.FormatInt(id, 10)
}
