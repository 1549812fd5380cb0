// Package web serves the booking site and the admin dashboard.
package web

import (
	"context"
	"fmt"
	"net/http"

	"repairshop/internal/adapters/email"
	"repairshop/internal/adapters/http/flash"
	"repairshop/internal/adapters/http/middleware"
	"repairshop/internal/adapters/http/perf"
	adminStore "repairshop/internal/adapters/storage/admin"
	appointmentStore "repairshop/internal/adapters/storage/appointment"
	settingsStore "repairshop/internal/adapters/storage/settings"
	"repairshop/internal/domain/appointment"
)

// Stores holds all storage dependencies.
type Stores struct {
	AdminStore       adminStore.Store
	AppointmentStore appointmentStore.Store
	SettingsStore    settingsStore.Store
}

// Deps configures NewMux.
type Deps struct {
	Stores    Stores
	Sessions  middleware.SessionStore
	Collector *perf.Collector // optional

	CSRFKey        []byte // 32 bytes
	FlashKey       []byte // 32 or 64 bytes
	SecureCookies  bool
	TrustedOrigins []string

	RateLimitPerMin int
	SlowRequestMs   int

	Notifier    email.Sender // optional
	NotifyEmail string

	NewToken func() string                  // defaults to appointment.NewToken
	Ping     func(ctx context.Context) error // optional, used by /healthz
}

// server carries handler dependencies.
type server struct {
	Deps
	render  *renderer
	flashes *flash.Store
	home    homeView
}

// NewMux wires HTTP handlers and middleware for the app.
// PRE: deps.Stores and deps.Sessions are set; CSRFKey is 32 bytes
// POST: Returns a handler ready to serve, or an error if templates fail to parse
func NewMux(deps Deps) (http.Handler, error) {
	if len(deps.CSRFKey) != 32 {
		return nil, fmt.Errorf("csrf key must be 32 bytes, got %d", len(deps.CSRFKey))
	}
	if deps.NewToken == nil {
		deps.NewToken = appointment.NewToken
	}

	flashes := flash.NewStore(deps.FlashKey, deps.SecureCookies)
	rn, err := newRenderer(flashes)
	if err != nil {
		return nil, err
	}
	intro, err := renderHome()
	if err != nil {
		return nil, err
	}
	s := &server{Deps: deps, render: rn, flashes: flashes, home: homeView{Intro: intro}}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	// Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(deps.CSRFKey, deps.SecureCookies, deps.TrustedOrigins),
		middleware.Auth(deps.Sessions),
		middleware.RateLimit(deps.RateLimitPerMin),
		middleware.Timing(deps.Collector, deps.SlowRequestMs),
	), nil
}

func (s *server) registerRoutes(mux *http.ServeMux) {
	admin := middleware.RequireAdmin(s.flashes)

	mux.Handle("GET /static/", staticFiles())
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /book_appointment", s.handleBookForm)
	mux.HandleFunc("POST /book_appointment", s.handleBookSubmit)
	mux.HandleFunc("GET /check_status", s.handleCheckStatusForm)
	mux.HandleFunc("POST /check_status", s.handleCheckStatus)
	mux.HandleFunc("POST /appointment/cancel/{id}", s.handleCancel)

	mux.HandleFunc("GET /admin/login", s.handleLoginForm)
	mux.HandleFunc("POST /admin/login", s.handleLogin)
	mux.Handle("GET /admin/logout", admin(http.HandlerFunc(s.handleLogout)))
	mux.Handle("GET /admin", admin(http.HandlerFunc(s.handleDashboard)))
	mux.Handle("GET /admin/export", admin(http.HandlerFunc(s.handleExport)))
	mux.Handle("POST /admin/update_status/{id}", admin(http.HandlerFunc(s.handleUpdateStatus)))
	mux.Handle("POST /admin/delete/{id}", admin(http.HandlerFunc(s.handleDelete)))
	mux.Handle("GET /admin/settings", admin(http.HandlerFunc(s.handleSettingsForm)))
	mux.Handle("POST /admin/settings", admin(http.HandlerFunc(s.handleUpdateSettings)))
	mux.Handle("GET /admin/perf", admin(http.HandlerFunc(s.handlePerf)))

	mux.HandleFunc("/", s.handleNotFound)
}
