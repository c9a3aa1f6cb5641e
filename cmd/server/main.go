package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "capacitaciones/internal/adapters/email"
	web "capacitaciones/internal/adapters/http"
	"capacitaciones/internal/adapters/http/perf"
	"capacitaciones/internal/adapters/storage"
	trainingStore "capacitaciones/internal/adapters/storage/training"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("CAPACITACIONES_DB", "capacitaciones.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	// Run database migrations
	if err := storage.MigrateDB(db, dbPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	log.Println("Database initialized successfully!")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	stores := &web.Stores{
		TrainingStore: trainingStore.NewSQLiteStore(timedDB),
	}

	// Configure email sender
	resendKey := os.Getenv("CAPACITACIONES_RESEND_KEY")
	emailFrom := envOrDefault("CAPACITACIONES_RESEND_FROM", "Capacitaciones <noreply@empresa.com>")
	emailReply := envOrDefault("CAPACITACIONES_REPLY_TO", "rrhh@empresa.com")
	switch {
	case resendKey != "":
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, emailReply)
		log.Println("Email sender configured (Resend)")
	case os.Getenv("CAPACITACIONES_EMAIL") == "noop":
		// Dev mode: invitations are logged, not delivered, but the send path runs.
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, emailReply)
		log.Println("Email sender configured (noop — set CAPACITACIONES_RESEND_KEY for real delivery)")
	default:
		if os.Getenv("CAPACITACIONES_ENV") == "production" {
			log.Println("WARNING: CAPACITACIONES_RESEND_KEY is not set — invitations fall back to mailto links")
		}
	}

	// Create HTTP handler with middleware (pass collector for timing + perf endpoint)
	mux := web.NewMux("static", stores, collector)

	// Start server
	addr := envOrDefault("CAPACITACIONES_ADDR", ":8080")
	log.Printf("Capacitaciones %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("CAPACITACIONES_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
