package browser_test

import (
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
)

func bookingFields(phone, date string) map[string]string {
	return map[string]string{
		"customer_name":    "Ana Ruiz",
		"phone_number":     phone,
		"address":          "12 Harbour St",
		"device":           "Phone",
		"problem":          "Cracked screen",
		"appointment_date": date,
	}
}

// TestBookingFlow_BookCheckCancel walks a customer through booking, lookup and cancel.
func TestBookingFlow_BookCheckCancel(t *testing.T) {
	app := newTestApp(t)
	page := app.newPage(t)

	app.visit(t, page, "/book_appointment")
	fill(t, page, bookingFields("555-0100", "2026-10-20T09:30"))
	submit(t, page)
	if text := bodyText(t, page); !strings.Contains(text, "20-10-2026 09:30 AM") {
		t.Fatalf("confirmation missing date: %q", text)
	}

	app.visit(t, page, "/check_status")
	fill(t, page, map[string]string{"phone_number": "555-0100"})
	submit(t, page)
	if text := bodyText(t, page); !strings.Contains(text, "Pending") {
		t.Fatalf("status page missing Pending row: %q", text)
	}

	if err := page.Locator("form[action^='/appointment/cancel/'] button").Click(); err != nil {
		t.Fatalf("failed to click cancel: %v", err)
	}
	if err := page.WaitForURL(app.BaseURL+"/check_status", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("cancel did not redirect: %v", err)
	}
	if text := bodyText(t, page); !strings.Contains(text, "Appointment cancelled successfully.") {
		t.Errorf("missing cancel flash: %q", text)
	}
}

// TestBookingFlow_Reschedule follows the reschedule link from the status page.
func TestBookingFlow_Reschedule(t *testing.T) {
	app := newTestApp(t)
	page := app.newPage(t)

	app.visit(t, page, "/book_appointment")
	fill(t, page, bookingFields("555-0200", "2026-10-20T09:30"))
	submit(t, page)

	app.visit(t, page, "/check_status")
	fill(t, page, map[string]string{"phone_number": "555-0200"})
	submit(t, page)
	if err := page.Locator("a:has-text('Reschedule')").Click(); err != nil {
		t.Fatalf("failed to follow reschedule link: %v", err)
	}
	value, err := page.Locator("[name=customer_name]").InputValue()
	if err != nil || value != "Ana Ruiz" {
		t.Fatalf("reschedule form not pre-filled: %q, %v", value, err)
	}
	fill(t, page, map[string]string{"appointment_date": "2026-10-23T14:00"})
	submit(t, page)
	if err := page.WaitForURL(app.BaseURL+"/check_status", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("reschedule did not redirect: %v", err)
	}
	if text := bodyText(t, page); !strings.Contains(text, "Appointment rescheduled.") {
		t.Errorf("missing reschedule flash: %q", text)
	}
}

// TestAdminFlow_LimitBlocksBooking sets a zero limit and checks the booking is refused.
func TestAdminFlow_LimitBlocksBooking(t *testing.T) {
	app := newTestApp(t)
	page := app.newPage(t)
	app.login(t, page)

	app.visit(t, page, "/admin/settings")
	fill(t, page, map[string]string{"daily_appointment_limit": "0"})
	submit(t, page)
	if err := page.WaitForURL(app.BaseURL+"/admin", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("settings did not redirect: %v", err)
	}

	app.visit(t, page, "/book_appointment")
	fill(t, page, bookingFields("555-0300", "2026-11-02T10:00"))
	submit(t, page)
	if text := bodyText(t, page); !strings.Contains(text, "Appointment limit reached for this day.") {
		t.Errorf("expected limit message, got %q", text)
	}
}
