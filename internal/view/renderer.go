// Package view adapts html/template to Echo's Renderer interface. Pages
// are deliberately plain: the storefront's behavior lives in handlers and
// services, templates only display what they are given.
package view

import (
	"html/template"
	"io"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// Renderer executes the parsed template set by page name.
type Renderer struct {
	templates *template.Template
}

// New parses every *.html template under dir.
func New(dir string) (*Renderer, error) {
	t, err := template.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
