package web

import (
	"bytes"
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/delez/internal/backend"
	"github.com/erazemk/delez/internal/market"
	"github.com/erazemk/delez/internal/model"
	"github.com/erazemk/delez/internal/notify"
	"github.com/erazemk/delez/internal/session"
	webembed "github.com/erazemk/delez/web"
)

const layoutFile = "layout.html"

// Templates holds the parsed pages, each with its own copy of the layout.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"currency":  market.FormatCurrency,
		"number":    market.FormatNumber,
		"typeTitle": market.TypeTitle,
		"percent": func(f float64) string {
			return fmt.Sprintf("%.1f%%", f)
		},
		"ago": func(t time.Time) string {
			return notify.Ago(t, time.Now())
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"field": func(f float64) string {
			return strconv.FormatFloat(f, 'f', -1, 64)
		},
		"imageSrc":    imageSrc,
		"roleAtLeast": model.RoleAtLeast,
		"add":         func(a, b int) int { return a + b },
	}
}

// LoadTemplates parses every page in the embedded templates directory
// together with the shared layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	base, err := template.New(layoutFile).Funcs(FuncMap()).ParseFS(tfs, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}

	pages, err := fs.Glob(tfs, "*.html")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	ts := &Templates{templates: make(map[string]*template.Template)}
	for _, page := range pages {
		if page == layoutFile {
			continue
		}
		tmpl, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning layout for %s: %w", page, err)
		}
		if _, err := tmpl.ParseFS(tfs, page); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with status 200.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status code. The page is
// rendered in full before anything is written.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		slog.Error("unknown template", "template", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("failed to write page", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Path    string
	Session *session.Session
	Nav     Nav
	Error   string
	Success string
	Notice  string
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB        *sql.DB
	Templates *Templates
	Backend   *backend.Client
	Sessions  *session.Manager
}
