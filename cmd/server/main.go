package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	emailPkg "boetepot/internal/adapters/email"
	web "boetepot/internal/adapters/http"
	"boetepot/internal/adapters/http/middleware"
	"boetepot/internal/adapters/http/perf"
	"boetepot/internal/adapters/storage"
	accountStore "boetepot/internal/adapters/storage/account"
	auditStore "boetepot/internal/adapters/storage/audit"
	fineStore "boetepot/internal/adapters/storage/fine"
	playerStore "boetepot/internal/adapters/storage/player"
	reasonStore "boetepot/internal/adapters/storage/reason"
	sessionStore "boetepot/internal/adapters/storage/session"
	"boetepot/internal/adapters/telemetry"
	"boetepot/internal/application/orchestrators"
	"boetepot/internal/config"
	"boetepot/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// sessionSweepInterval is how often expired sessions are purged.
const sessionSweepInterval = time.Hour

func main() {
	if err := run(); err != nil {
		slog.Error("startup_failed", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logging.Setup(level, cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelEndpoint, version)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			slog.Warn("telemetry_shutdown_failed", "error", err.Error())
		}
	}()

	dialect, err := cfg.Dialect()
	if err != nil {
		return err
	}
	db, err := storage.Open(ctx, dialect, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.MigrateDB(ctx, db, dialect); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	slog.Info("database_ready", "driver", string(dialect), "schema", storage.LatestSchemaVersion())

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	var metrics *perf.Metrics
	if cfg.MetricsEnabled {
		metrics = perf.NewMetrics()
	}
	timedDB := storage.NewTimedDB(db, dialect, storage.TimedDBOptions{
		Collector:   collector,
		Metrics:     metrics,
		SlowQueryMs: cfg.SlowQueryMs,
	})

	stores := &web.Stores{
		PlayerStore:  playerStore.NewSQLStore(timedDB),
		ReasonStore:  reasonStore.NewSQLStore(timedDB),
		FineStore:    fineStore.NewSQLStore(timedDB),
		AccountStore: accountStore.NewSQLStore(timedDB),
		SessionStore: sessionStore.NewSQLStore(timedDB),
		AuditStore:   auditStore.NewSQLStore(timedDB),
	}

	if _, err := orchestrators.ExecuteSeedAdmin(ctx, orchestrators.SeedAdminInput{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		Reset:    cfg.AdminPasswordReset,
	}, orchestrators.SeedAdminDeps{AccountStore: stores.AccountStore, Now: time.Now}); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	// Configure email sender
	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		slog.Info("email_configured", "sender", "resend")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() && len(cfg.TreasurerEmail) > 0 {
			slog.Warn("email_configured", "sender", "noop", "note", "BOETEPOT_RESEND_KEY is not set; treasurer mail is only logged")
		}
	}
	var treasurer orchestrators.TreasurerNotifier
	if t := emailPkg.NewTreasurer(sender, cfg.TreasurerEmail); t != nil {
		treasurer = t
	}

	// Start session sweeper
	sweepStopCh := make(chan struct{})
	orchestrators.StartSessionSweeper(orchestrators.SweepSessionsDeps{
		SessionStore: stores.SessionStore,
		Retention:    cfg.SessionRetention,
		Now:          time.Now,
	}, sessionSweepInterval, sweepStopCh)
	defer close(sweepStopCh)

	handler, err := web.NewMux(web.Options{
		Stores:         stores,
		DB:             timedDB,
		Collector:      collector,
		Metrics:        metrics,
		Tokens:         middleware.NewTokenManager([]byte(cfg.SessionSecret), time.Now),
		Treasurer:      treasurer,
		AdminUsername:  cfg.AdminUsername,
		CSRFKey:        []byte(cfg.CSRFKey),
		SecureCookies:  cfg.IsProduction(),
		TrustedOrigins: cfg.TrustedOrigins,
		SessionTTL:     cfg.SessionTTL,
		LoginRateLimit: cfg.LoginRateLimit,
		SlowRequestMs:  cfg.SlowRequestMs,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
