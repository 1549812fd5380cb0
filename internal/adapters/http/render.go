package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"repairshop/internal/adapters/http/flash"
	"repairshop/internal/adapters/http/middleware"
	"repairshop/internal/domain/appointment"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

//go:embed content/home.md
var homeMarkdown []byte

// mdRenderer converts the landing page copy. Raw HTML in the source is escaped.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// pageNames lists the templates rendered inside layout.html.
var pageNames = []string{
	"home.html",
	"book_appointment.html",
	"check_status.html",
	"status_result.html",
	"admin_login.html",
	"admin_dashboard.html",
	"update_settings.html",
	"admin_perf.html",
	"not_found.html",
}

// page is the value every template receives.
type page struct {
	Title     string
	Admin     string // logged-in username, empty when anonymous
	Flashes   []flash.Message
	CSRFField template.HTML
	Data      any
}

type renderer struct {
	pages   map[string]*template.Template
	flashes *flash.Store
}

var funcMap = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	"statusClass": func(status string) string {
		switch status {
		case appointment.StatusPending:
			return "pending"
		case appointment.StatusConfirmed, appointment.StatusInProgress:
			return "active"
		case appointment.StatusCompleted:
			return "done"
		case appointment.StatusCancelled:
			return "cancelled"
		default:
			return "other"
		}
	},
	"dashboardQuery": func(page int, status, date, sort string) template.URL {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		if status != "" {
			q.Set("status", status)
		}
		if date != "" {
			q.Set("date", date)
		}
		if sort != "" {
			q.Set("sort", sort)
		}
		return template.URL(q.Encode())
	},
	"rescheduleQuery": func(a appointment.Appointment) template.URL {
		q := url.Values{}
		q.Set("customer_name", a.CustomerName)
		q.Set("phone_number", a.PhoneNumber)
		q.Set("address", a.Address)
		q.Set("device", a.Device)
		q.Set("problem", a.Problem)
		q.Set("appointment_date", a.FormValue())
		q.Set("reschedule_id", strconv.FormatUint(uint64(a.ID), 10))
		return template.URL(q.Encode())
	},
	"ms": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
}

// newRenderer parses every page together with the layout.
// PRE: templates are embedded
// POST: Returns a renderer with one template set per page
func newRenderer(flashes *flash.Store) (*renderer, error) {
	rn := &renderer{pages: make(map[string]*template.Template, len(pageNames)), flashes: flashes}
	for _, name := range pageNames {
		tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		rn.pages[name] = tpl
	}
	return rn, nil
}

// render executes a page into a buffer, then writes it. Pending flashes are
// consumed; extra messages are shown on this response only.
func (rn *renderer) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any, extra ...flash.Message) {
	tpl, ok := rn.pages[name]
	if !ok {
		internalError(w, fmt.Errorf("unknown template %s", name))
		return
	}

	p := page{
		Title:     title,
		CSRFField: csrf.TemplateField(r),
		Data:      data,
	}
	if sess, ok := middleware.AdminFromContext(r.Context()); ok {
		p.Admin = sess.Username
	}
	p.Flashes = append(rn.flashes.Pop(w, r), extra...)

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, p); err != nil {
		internalError(w, fmt.Errorf("render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// renderHome converts the landing page Markdown once at startup.
func renderHome() (template.HTML, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert(homeMarkdown, &buf); err != nil {
		return "", fmt.Errorf("failed to render home page: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func staticFiles() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
