package browser_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	web "repairshop/internal/adapters/http"
	"repairshop/internal/adapters/http/middleware"
	"repairshop/internal/adapters/http/perf"
	"repairshop/internal/adapters/storage"
	adminStore "repairshop/internal/adapters/storage/admin"
	appointmentStore "repairshop/internal/adapters/storage/appointment"
	"repairshop/internal/adapters/storage/schema"
	settingsStore "repairshop/internal/adapters/storage/settings"
	"repairshop/internal/application/orchestrators"
)

const (
	adminUser = "owner"
	adminPass = "TestPass123!"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  web.Stores
}

// newTestApp wires the app over a temp SQLite database, starts an HTTP server and a browser.
// The test is skipped when Playwright browsers are not installed.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	db, err := storage.Open(storage.Options{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := schema.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}
	sqlDB, _ := db.DB()

	stores := web.Stores{
		AdminStore:       adminStore.NewGormStore(db),
		AppointmentStore: appointmentStore.NewGormStore(db),
		SettingsStore:    settingsStore.NewGormStore(db),
	}
	if _, err := orchestrators.ExecuteSeedAdmin(context.Background(),
		orchestrators.SeedAdminInput{Username: adminUser, Password: adminPass},
		orchestrators.SeedAdminDeps{AdminStore: stores.AdminStore},
	); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	baseURL := fmt.Sprintf("http://%s", listener.Addr().String())

	handler, err := web.NewMux(web.Deps{
		Stores:    stores,
		Sessions:  middleware.NewMemorySessionStore(),
		Collector: perf.NewCollector(1000),
		CSRFKey:   bytes.Repeat([]byte("c"), 32),
		FlashKey:  bytes.Repeat([]byte("f"), 32),
		Ping:      sqlDB.PingContext,
	})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("test server error: %v", err)
		}
	}()

	pw, err := playwright.Run()
	if err != nil {
		srv.Close()
		sqlDB.Close()
		t.Skipf("playwright unavailable: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		srv.Close()
		sqlDB.Close()
		t.Skipf("chromium unavailable: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
	}
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		sqlDB.Close()
	})
	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// visit navigates and fails the test on a 4xx or 5xx response.
func (a *testApp) visit(t *testing.T, page playwright.Page, path string) {
	t.Helper()
	resp, err := page.Goto(a.BaseURL + path)
	if err != nil {
		t.Fatalf("failed to navigate to %s: %v", path, err)
	}
	if resp != nil && resp.Status() >= 400 {
		t.Fatalf("%s returned %d", path, resp.Status())
	}
}

// fill sets each named input on the current page.
func fill(t *testing.T, page playwright.Page, fields map[string]string) {
	t.Helper()
	for name, value := range fields {
		sel := fmt.Sprintf("[name=%q]", name)
		if err := page.Locator(sel).Fill(value); err != nil {
			t.Fatalf("failed to fill %s: %v", name, err)
		}
	}
}

// submit clicks the page's main submit button.
func submit(t *testing.T, page playwright.Page) {
	t.Helper()
	if err := page.Locator("main button[type=submit]").First().Click(); err != nil {
		t.Fatalf("failed to submit: %v", err)
	}
}

// bodyText returns the visible text of <main>.
func bodyText(t *testing.T, page playwright.Page) string {
	t.Helper()
	text, err := page.Locator("main").InnerText()
	if err != nil {
		t.Fatalf("failed to read page text: %v", err)
	}
	return text
}

// login signs in as the seeded admin and waits for the dashboard.
func (a *testApp) login(t *testing.T, page playwright.Page) {
	t.Helper()
	a.visit(t, page, "/admin/login")
	fill(t, page, map[string]string{"username": adminUser, "password": adminPass})
	submit(t, page)
	if err := page.WaitForURL(a.BaseURL+"/admin", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to dashboard: %v", err)
	}
}
