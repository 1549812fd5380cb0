package config

import "testing"

// TestLoad_Defaults verifies defaults when nothing is set.
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SHOP_ENV", "")
	t.Setenv("SHOP_DB_DRIVER", "")
	t.Setenv("SHOP_ADDR", "")
	t.Setenv("SHOP_RATE_LIMIT_PER_MIN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %s", cfg.Addr)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %s", cfg.DBDriver)
	}
	if cfg.RateLimitPerMin != 300 {
		t.Errorf("RateLimitPerMin = %d", cfg.RateLimitPerMin)
	}
	if cfg.IsProduction() {
		t.Error("expected development by default")
	}
}

// TestLoad_RejectsUnknownDriver verifies the driver whitelist.
func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("SHOP_DB_DRIVER", "oracle")
	if _, err := Load(); err == nil {
		t.Error("expected error for unknown driver")
	}
}

// TestLoad_RejectsBadInt verifies integer parsing errors surface.
func TestLoad_RejectsBadInt(t *testing.T) {
	t.Setenv("SHOP_DB_DRIVER", "")
	t.Setenv("SHOP_SLOW_QUERY_MS", "fast")
	if _, err := Load(); err == nil {
		t.Error("expected error for non-integer SHOP_SLOW_QUERY_MS")
	}
}

// TestLoad_ProductionRequiresKeys verifies production refuses random keys.
func TestLoad_ProductionRequiresKeys(t *testing.T) {
	t.Setenv("SHOP_DB_DRIVER", "")
	t.Setenv("SHOP_ENV", "production")
	t.Setenv("SHOP_CSRF_KEY", "")
	if _, err := Load(); err == nil {
		t.Error("expected error without SHOP_CSRF_KEY in production")
	}
}

// TestString_TrimsAndFallsBack checks the helper semantics.
func TestString_TrimsAndFallsBack(t *testing.T) {
	t.Setenv("SHOP_TEST_VALUE", "  ")
	if got := String("SHOP_TEST_VALUE", "fallback"); got != "fallback" {
		t.Errorf("got %q", got)
	}
	t.Setenv("SHOP_TEST_VALUE", " value ")
	if got := String("SHOP_TEST_VALUE", "fallback"); got != "value" {
		t.Errorf("got %q", got)
	}
}
