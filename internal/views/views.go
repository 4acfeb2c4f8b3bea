// Package views renders the HTML pages and serves the embedded static assets.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/isdelr/employee-records/internal/models"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page is the data every template receives.
type Page struct {
	Title     string
	Username  string
	Employees []models.Employee
	Employee  *models.Employee
}

// Renderer produces markup for a named page.
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

// TemplateRenderer renders pages parsed from the embedded templates. Each page
// is parsed together with the shared partials.
type TemplateRenderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"departments": func() []string { return models.Departments },
	"money":       func(v float64) string { return fmt.Sprintf("%.2f", v) },
}

// NewTemplateRenderer parses every page under templates/.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".html")
		tmpl, err := template.New(entry.Name()).Funcs(funcs).ParseFS(templateFS,
			"templates/partials/*.html",
			path.Join("templates", entry.Name()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &TemplateRenderer{pages: pages}, nil
}

// Render executes page name into w. Output is buffered so a failing template
// never leaves a half-written page.
func (r *TemplateRenderer) Render(w io.Writer, name string, data any) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	if rw, ok := w.(http.ResponseWriter); ok && rw.Header().Get("Content-Type") == "" {
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler serves the embedded static directory.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
