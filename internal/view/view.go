// Package view renders the storefront pages. Handlers hand it query
// results and pagination metadata; everything visual stays in here.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fatihashop/storefront/internal/session"
)

//go:embed templates/*.html
var files embed.FS

// Engine implements echo.Renderer over the embedded template set.
type Engine struct {
	templates *template.Template
}

// TemplateData is the envelope every page receives.
type TemplateData struct {
	Title   string
	Flashes []session.Flash
	Data    any
}

func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"formatPrice": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
		"deref": func(v *float64) float64 {
			if v == nil {
				return 0
			}
			return *v
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006")
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

func (e *Engine) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return e.templates.ExecuteTemplate(w, name, data)
}
