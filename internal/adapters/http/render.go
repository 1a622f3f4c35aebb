package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"boetepot/internal/adapters/http/middleware"
	"boetepot/internal/domain/fine"
	"boetepot/internal/domain/money"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// mdRenderer renders admin notes. Raw HTML in the input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var dutchMonths = [...]string{
	"januari", "februari", "maart", "april", "mei", "juni",
	"juli", "augustus", "september", "oktober", "november", "december",
}

// dutchDate formats t as "7 maart 2024".
func dutchDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), dutchMonths[t.Month()-1], t.Year())
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

var funcMap = template.FuncMap{
	"euro":      func(c money.Cents) string { return c.Format() },
	"plain":     func(c money.Cents) string { return c.String() },
	"dutchDate": dutchDate,
	"isoDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(fine.DateLayout)
	},
	"markdown": renderMarkdown,
	"add":      func(a, b int) int { return a + b },
	"sub":      func(a, b int) int { return a - b },
	"idStr":    func(id int64) string { return strconv.FormatInt(id, 10) },
	"hasID": func(ids []int64, id int64) bool {
		for _, v := range ids {
			if v == id {
				return true
			}
		}
		return false
	},
}

// pageSet holds one parsed template per page, each joined with the shared layout.
type pageSet map[string]*template.Template

func parsePages() (pageSet, error) {
	names, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	pages := make(pageSet, len(names))
	for _, path := range names {
		name := path[len("templates/"):]
		if name == "layout.html" {
			continue
		}
		tpl, err := template.New(name).Funcs(funcMap).ParseFS(templatesFS, "templates/layout.html", path)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return pages, nil
}

// page is what every template receives.
type page struct {
	Title     string
	Username  string
	LoggedIn  bool
	CSRFField template.HTML
	Flash     string
	Error     string
	Data      any
}

// render executes a page into a buffer so a template failure never sends a half page.
func (a *app) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	tpl, ok := a.pages[name]
	if !ok {
		internalError(w, r, fmt.Errorf("unknown template %s", name))
		return
	}
	if s, ok := middleware.GetSessionFromContext(r.Context()); ok {
		p.LoggedIn = true
		p.Username = s.Username
	}
	p.CSRFField = csrf.TemplateField(r)
	if p.Flash == "" {
		p.Flash = flashMessage(r)
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		slog.Error("render_failed", "template", name, "error", err.Error())
		http.Error(w, msgGeneric, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// flashes are the outcomes a redirect can announce with ?ok=<key>.
var flashes = map[string]string{
	"created":    "Opgeslagen.",
	"updated":    "Gewijzigd.",
	"deleted":    "Verwijderd.",
	"logged_out": "Je bent uitgelogd.",
}

func flashMessage(r *http.Request) string {
	q := r.URL.Query()
	if n := q.Get("removed"); n != "" {
		if count, err := strconv.Atoi(n); err == nil && count >= 0 {
			return fmt.Sprintf("%d boetes verwijderd.", count)
		}
	}
	return flashes[q.Get("ok")]
}

// redirect answers a successful form post with 303 See Other.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// staticHandler serves the embedded assets; /static/app.js maps to static/app.js.
func staticHandler() http.Handler {
	return http.FileServerFS(staticFS)
}
