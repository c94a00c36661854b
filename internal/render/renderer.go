package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer implements echo.Renderer on top of the embedded templates.
type Renderer struct {
	templates *template.Template
}

// New parses the embedded templates with the formatting helpers attached.
func New() (*Renderer, error) {
	t := template.New("").Funcs(template.FuncMap{
		"statusLabel": StatusLabel,
		"badgeClass":  BadgeClass,
		"currency":    Currency,
		"weight":      Weight,
		"date":        Date,
		"datetime":    DateTime,
	})
	t, err := t.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render executes the named template.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
