// Package view renders the HTML pages.
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

	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/wizard"
)

//go:embed templates/*.html
var templates embed.FS

// Page is the data every template receives.
type Page struct {
	Title string
	// User is the cached session user, nil when signed out.
	User *domain.UserRecord
	Body any
	// Refresh is the content of a meta refresh emitted for browsers without
	// scripts, empty for none.
	Refresh string
}

// CooldownRefresh returns the Page.Refresh value that reloads path once a
// resend cooldown of seconds has run out, or "" when nothing is counting.
func CooldownRefresh(path string, seconds int) string {
	if seconds <= 0 {
		return ""
	}
	return fmt.Sprintf("%d;url=%s", seconds, path)
}

// LoginBody is the login page payload. Flash carries a message handed over
// by the previous page.
type LoginBody struct {
	State wizard.Login
	Flash string
}

type ErrorBody struct {
	Code    int
	Message string
}

// Renderer implements echo.Renderer. Each page is parsed together with the
// shared layout into its own template set.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"initials": domain.Initials,
	"money":    func(v float64) string { return fmt.Sprintf("₹%.2f", v) },
	"total":    func(b domain.Booking) float64 { return b.Total() },
	"lower":    strings.ToLower,
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	return parse(templates)
}

func parse(fsys fs.FS) (*Renderer, error) {
	files, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".html")
		if name == "layout" {
			continue
		}
		t, err := template.New(name).Funcs(funcs).ParseFS(fsys, "templates/layout.html", f)
		if err != nil {
			return nil, fmt.Errorf("view %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the layout of page name with data.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Has reports whether a page named name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}
