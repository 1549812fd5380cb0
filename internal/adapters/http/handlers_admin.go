package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"repairshop/internal/adapters/http/flash"
	"repairshop/internal/adapters/http/middleware"
	"repairshop/internal/adapters/http/perf"
	"repairshop/internal/adapters/spreadsheet"
	"repairshop/internal/application/listutil"
	"repairshop/internal/application/orchestrators"
	"repairshop/internal/application/projections"
	"repairshop/internal/domain/appointment"
	"repairshop/internal/domain/export"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgStatusUpdated      = "Status updated."
	msgDeleted            = "Appointment deleted."
	msgSettingsSaved      = "Settings updated."
)

type dashboardView struct {
	Result   projections.DashboardResult
	Statuses []string
}

type settingsView struct {
	Value   string
	Blocked bool
	Error   string
}

type perfView struct {
	Window   string
	Snapshot perf.Snapshot
	Enabled  bool
}

// handleLoginForm serves GET /admin/login
func (s *server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.AdminFromContext(r.Context()); ok {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	s.render.render(w, r, http.StatusOK, "admin_login.html", "Admin login", nil)
}

// handleLogin serves POST /admin/login
func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, msgInvalidSubmitted, http.StatusBadRequest)
		return
	}
	form := LoginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	rejected := flash.Message{Category: flash.Danger, Text: msgInvalidCredentials}
	if validateForm(form) != "" {
		s.render.render(w, r, http.StatusOK, "admin_login.html", "Admin login", nil, rejected)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(),
		orchestrators.LoginInput{Username: form.Username, Password: form.Password},
		orchestrators.LoginDeps{AdminStore: s.Stores.AdminStore},
	)
	if err != nil {
		if errors.Is(err, orchestrators.ErrInvalidCredentials) {
			s.render.render(w, r, http.StatusOK, "admin_login.html", "Admin login", nil, rejected)
			return
		}
		internalError(w, err)
		return
	}

	token, err := s.Sessions.Create(r.Context(), result.AdminID, result.Username)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token, s.SecureCookies)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleLogout serves GET /admin/logout
func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		if err := s.Sessions.Delete(r.Context(), token); err != nil {
			slog.Warn("auth_event", "event", "logout_delete_failed", "error", err)
		}
	}
	if sess, ok := middleware.AdminFromContext(r.Context()); ok {
		slog.Info("auth_event", "event", "logout", "username", sess.Username)
	}
	middleware.ClearSessionCookie(w, s.SecureCookies)
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// handleDashboard serves GET /admin?status=&date=&page=&sort=
func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := projections.QueryDashboard(r.Context(),
		projections.DashboardQuery{
			Status: q.Get("status"),
			Date:   q.Get("date"),
			Page:   listutil.ParsePage(q),
			Sort:   listutil.ParseSortOrder(q),
		},
		projections.DashboardDeps{AppointmentStore: s.Stores.AppointmentStore},
	)
	if err != nil {
		internalError(w, err)
		return
	}
	s.render.render(w, r, http.StatusOK, "admin_dashboard.html", "Appointments",
		dashboardView{Result: result, Statuses: appointment.KnownStatuses})
}

// handleExport serves GET /admin/export
func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryExport(r.Context(),
		projections.ExportDeps{AppointmentStore: s.Stores.AppointmentStore})
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := spreadsheet.WriteAppointments(&buf, result.Rows); err != nil {
		internalError(w, err)
		return
	}
	slog.Info("admin_event", "event", "export", "rows", len(result.Rows))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+export.Filename)
	w.Write(buf.Bytes())
}

// handleUpdateStatus serves POST /admin/update_status/{id}
func (s *server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, msgInvalidSubmitted, http.StatusBadRequest)
		return
	}
	form := StatusForm{Status: r.PostFormValue("status")}
	if msg := validateForm(form); msg != "" {
		s.flashes.Add(w, r, flash.Danger, msg)
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	_, err := orchestrators.ExecuteUpdateStatus(r.Context(),
		orchestrators.UpdateStatusInput{ID: id, Status: form.Status},
		orchestrators.UpdateStatusDeps{AppointmentStore: s.Stores.AppointmentStore},
	)
	if err != nil {
		if errors.Is(err, orchestrators.ErrAppointmentNotFound) {
			s.handleNotFound(w, r)
			return
		}
		internalError(w, err)
		return
	}
	s.flashes.Add(w, r, flash.Success, msgStatusUpdated)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleDelete serves POST /admin/delete/{id}
func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	err := orchestrators.ExecuteDeleteAppointment(r.Context(),
		orchestrators.DeleteAppointmentInput{ID: id},
		orchestrators.DeleteAppointmentDeps{AppointmentStore: s.Stores.AppointmentStore},
	)
	if err != nil {
		if errors.Is(err, orchestrators.ErrAppointmentNotFound) {
			s.handleNotFound(w, r)
			return
		}
		internalError(w, err)
		return
	}
	s.flashes.Add(w, r, flash.Success, msgDeleted)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleSettingsForm serves GET /admin/settings
func (s *server) handleSettingsForm(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QuerySettings(r.Context(),
		projections.SettingsDeps{SettingsStore: s.Stores.SettingsStore})
	if err != nil {
		internalError(w, err)
		return
	}
	s.render.render(w, r, http.StatusOK, "update_settings.html", "Settings", settingsView{
		Value:   strconv.Itoa(result.Settings.DailyAppointmentLimit),
		Blocked: result.Settings.BlocksAllBookings(),
	})
}

// handleUpdateSettings serves POST /admin/settings
func (s *server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, msgInvalidSubmitted, http.StatusBadRequest)
		return
	}
	form := SettingsForm{DailyAppointmentLimit: r.PostFormValue("daily_appointment_limit")}
	msg := validateForm(form)
	limit, err := form.limit()
	if msg == "" && err != nil {
		msg = "Daily appointment limit must be a whole number."
	}
	if msg != "" {
		s.render.render(w, r, http.StatusUnprocessableEntity, "update_settings.html", "Settings", settingsView{Value: form.DailyAppointmentLimit, Error: msg})
		return
	}

	if _, err := orchestrators.ExecuteUpdateSettings(r.Context(),
		orchestrators.UpdateSettingsInput{DailyAppointmentLimit: limit},
		orchestrators.UpdateSettingsDeps{SettingsStore: s.Stores.SettingsStore, Now: time.Now},
	); err != nil {
		internalError(w, err)
		return
	}
	s.flashes.Add(w, r, flash.Success, msgSettingsSaved)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handlePerf serves GET /admin/perf with the last hour of timings.
func (s *server) handlePerf(w http.ResponseWriter, r *http.Request) {
	view := perfView{Window: "last hour", Enabled: s.Collector != nil}
	if s.Collector != nil {
		view.Snapshot = s.Collector.Snapshot(time.Now().Add(-time.Hour), 10)
	}
	s.render.render(w, r, http.StatusOK, "admin_perf.html", "Performance", view)
}
