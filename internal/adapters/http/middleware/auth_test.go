package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"repairshop/internal/adapters/http/flash"
)

var testHashKey = []byte("0123456789abcdef0123456789abcdef")

// TestAuth_LoadsSession verifies a valid cookie populates the context.
func TestAuth_LoadsSession(t *testing.T) {
	sessions := NewMemorySessionStore()
	token, _ := sessions.Create(context.Background(), 5, "admin")

	var got Session
	var ok bool
	handler := Auth(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = AdminFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !ok || got.AdminID != 5 {
		t.Errorf("AdminFromContext = %+v, %v", got, ok)
	}
}

// TestAuth_AnonymousPassesThrough verifies Auth itself never blocks.
func TestAuth_AnonymousPassesThrough(t *testing.T) {
	called := false
	handler := Auth(NewMemorySessionStore())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := AdminFromContext(r.Context()); ok {
			t.Error("unexpected session")
		}
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "forged"})
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Error("handler not called")
	}
}

// TestRequireAdmin_RedirectsWithFlash verifies anonymous requests go to the login page.
func TestRequireAdmin_RedirectsWithFlash(t *testing.T) {
	flashes := flash.NewStore(testHashKey, false)
	handler := RequireAdmin(flashes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("protected handler must not run")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/export", nil))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != LoginPath {
		t.Errorf("Location = %s, want %s", loc, LoginPath)
	}

	next := httptest.NewRequest(http.MethodGet, LoginPath, nil)
	for _, c := range rr.Result().Cookies() {
		next.AddCookie(c)
	}
	msgs := flashes.Pop(httptest.NewRecorder(), next)
	if len(msgs) != 1 || msgs[0].Text != LoginRequiredMessage || msgs[0].Category != flash.Warning {
		t.Errorf("flashes = %+v", msgs)
	}
}

// TestRequireAdmin_AllowsSession verifies a logged-in admin reaches the handler.
func TestRequireAdmin_AllowsSession(t *testing.T) {
	called := false
	handler := RequireAdmin(flash.NewStore(testHashKey, false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(ContextWithSession(req.Context(), Session{AdminID: 1, Username: "admin"}))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Error("handler not called for admin")
	}
}

// TestSessionCookies verifies cookie attributes.
func TestSessionCookies(t *testing.T) {
	rr := httptest.NewRecorder()
	SetSessionCookie(rr, "tok", true)
	c := rr.Result().Cookies()[0]
	if c.Name != sessionCookieName || c.Value != "tok" || !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie = %+v", c)
	}

	rr = httptest.NewRecorder()
	ClearSessionCookie(rr, false)
	if c := rr.Result().Cookies()[0]; c.MaxAge >= 0 {
		t.Errorf("MaxAge = %d, want negative", c.MaxAge)
	}
}
