package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	emailPkg "repairshop/internal/adapters/email"
	web "repairshop/internal/adapters/http"
	"repairshop/internal/adapters/http/middleware"
	"repairshop/internal/adapters/http/perf"
	"repairshop/internal/adapters/storage"
	adminStore "repairshop/internal/adapters/storage/admin"
	appointmentStore "repairshop/internal/adapters/storage/appointment"
	"repairshop/internal/adapters/storage/schema"
	settingsStore "repairshop/internal/adapters/storage/settings"
	"repairshop/internal/application/orchestrators"
	"repairshop/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	slog.SetDefault(config.NewLogger(os.Stderr, cfg.LogFormat, cfg.LogLevel))

	// Performance instrumentation: every gorm query is recorded in the collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	db, err := storage.Open(storage.Options{
		Driver: cfg.DBDriver,
		Path:   cfg.DBPath,
		URL:    cfg.DatabaseURL,
		Host:   cfg.DBHost,
		Port:   cfg.DBPort,
		User:   cfg.DBUser,
		Pass:   cfg.DBPass,
		Name:   cfg.DBName,
		Logger: storage.NewQueryLogger(collector, cfg.SlowQueryMs),
	})
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	defer sqlDB.Close()

	if err := schema.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	log.Printf("Database initialized (driver=%s)", cfg.DBDriver)

	stores := web.Stores{
		AdminStore:       adminStore.NewGormStore(db),
		AppointmentStore: appointmentStore.NewGormStore(db),
		SettingsStore:    settingsStore.NewGormStore(db),
	}

	// Seed the admin account if none exists
	seeded, err := orchestrators.ExecuteSeedAdmin(context.Background(),
		orchestrators.SeedAdminInput{Username: cfg.AdminUsername, Password: cfg.AdminPassword},
		orchestrators.SeedAdminDeps{AdminStore: stores.AdminStore},
	)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if seeded {
		log.Printf("Admin account %q created", cfg.AdminUsername)
	}

	sender := emailPkg.New(cfg.ResendKey, cfg.EmailFrom)
	switch {
	case cfg.ResendKey == "":
		log.Println("Email sender configured (noop; set SHOP_RESEND_KEY for real delivery)")
	case cfg.NotifyEmail == "":
		log.Println("Email sender configured (Resend) but SHOP_NOTIFY_EMAIL is empty; booking notifications are off")
	default:
		log.Println("Email sender configured (Resend)")
	}

	var sessions middleware.SessionStore = middleware.NewMemorySessionStore()
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisSessions, err := middleware.NewRedisSessionStore(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Fatalf("failed to connect session store: %v", err)
		}
		defer redisSessions.Close()
		sessions = redisSessions
		log.Println("Sessions stored in Redis")
	}

	handler, err := web.NewMux(web.Deps{
		Stores:          stores,
		Sessions:        sessions,
		Collector:       collector,
		CSRFKey:         loadKey("SHOP_CSRF_KEY", cfg.CSRFKeyHex),
		FlashKey:        loadKey("SHOP_SESSION_KEY", cfg.SessionKeyHex),
		SecureCookies:   cfg.IsProduction(),
		RateLimitPerMin: cfg.RateLimitPerMin,
		SlowRequestMs:   cfg.SlowRequestMs,
		Notifier:        sender,
		NotifyEmail:     cfg.NotifyEmail,
		Ping:            sqlDB.PingContext,
	})
	if err != nil {
		log.Fatalf("failed to build handler: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Repair shop %s starting on %s (env=%s)", version, cfg.Addr, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// loadKey decodes a 64-hex-character secret. Production configs are rejected
// earlier by config.Load when a key is missing, so a random key here means development.
func loadKey(name, keyHex string) []byte {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatalf("%s must be 64 hex characters (32 bytes)", name)
		}
		return key
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate %s: %v", name, err)
	}
	log.Printf("WARNING: using random %s (logins and flashes won't survive restart)", name)
	return key
}
