package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed templates
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// ページテンプレート名です。
const (
	PageEmployeeIndex  = "employees/index.html"
	PageEmployeeCreate = "employees/create.html"
	PageEmployeeEdit   = "employees/edit.html"
	PageEmployeeShow   = "employees/show.html"
	PageError          = "errors/error.html"
)

// Renderer は埋め込みテンプレートを描画する echo.Renderer 実装です。
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer はレイアウトと部分テンプレートを各ページと組み合わせて解析します。
func NewRenderer() (*Renderer, error) {
	partials, err := fs.Glob(templateFS, "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: glob partials: %w", err)
	}

	pageFiles, err := fs.Glob(templateFS, "templates/*/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: glob pages: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, file := range pageFiles {
		if strings.HasPrefix(file, "templates/partials/") {
			continue
		}

		files := append([]string{layoutFile}, partials...)
		files = append(files, file)

		tmpl, err := template.New(path.Base(layoutFile)).Funcs(funcMap()).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", file, err)
		}
		pages[strings.TrimPrefix(file, "templates/")] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

// Render は name のページをレイアウト付きで描画します。
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown template %q", name)
	}
	return tmpl.ExecuteTemplate(w, path.Base(layoutFile), data)
}
