// internal/view/render.go
//
// Central view engine: one shared layout, per-component page templates, and
// a small func-map.
//
// Public helpers
// --------------
//   - New            – parse the layout plus every page under a directory.
//   - Engine.Render  – write a rendered page with a status code.
//
// Layout
// ------
// templates/layout.html (embedded in this package) defines "layout", which
// draws the toasts and calls {{ template "content" . }}.  Each page file
// defines "content" and optionally "title".  Pages are parsed once at start
// into their own clone of the layout so their "content" blocks never clash.
//
// Rendering goes through a buffer so a template error never leaves a
// half-written page behind.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/gobarber/internal/message"
)

//go:embed templates/*.html
var layoutFS embed.FS

// Page is the data every layout render receives.
type Page struct {
	Title   string
	Notices []message.Notice
	Data    any // page-specific payload
}

// Engine holds parsed page sets keyed by page name ("signin", …).
type Engine struct {
	pages map[string]*template.Template
}

// New parses every "*.html" directly under dir in pages.
func New(pages fs.FS, dir string) (*Engine, error) {
	base, err := template.New("layout").Funcs(funcMap()).ParseFS(layoutFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("view: parse layout: %w", err)
	}

	files, err := fs.Glob(pages, path.Join(dir, "*.html"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("view: no templates under %q", dir)
	}

	e := &Engine{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		set, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := set.ParseFS(pages, f); err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", f, err)
		}
		e.pages[strings.TrimSuffix(path.Base(f), ".html")] = set
	}
	return e, nil
}

// Render executes page with p and writes it with status.  When it returns
// an error nothing has been written, so the caller still owns the response.
func (e *Engine) Render(w http.ResponseWriter, status int, page string, p Page) error {
	t, ok := e.pages[page]
	if !ok {
		return fmt.Errorf("view: unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("view: execute %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		// Headers are out; the client went away mid-body.
		zap.S().Debugw("page write failed", "page", page, "err", err)
	}
	return nil
}

//
// func-map
//

func funcMap() template.FuncMap {
	return template.FuncMap{
		"dict": dict,
	}
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
