package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"boetepot/internal/adapters/http/middleware"
	"boetepot/internal/adapters/http/perf"
	accountStore "boetepot/internal/adapters/storage/account"
	auditStore "boetepot/internal/adapters/storage/audit"
	fineStore "boetepot/internal/adapters/storage/fine"
	playerStore "boetepot/internal/adapters/storage/player"
	reasonStore "boetepot/internal/adapters/storage/reason"
	sessionStore "boetepot/internal/adapters/storage/session"
	"boetepot/internal/application/orchestrators"
	"boetepot/internal/domain/session"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stores holds all storage dependencies.
type Stores struct {
	PlayerStore  playerStore.Store
	ReasonStore  reasonStore.Store
	FineStore    fineStore.Store
	AccountStore accountStore.Store
	SessionStore sessionStore.Store
	AuditStore   auditStore.Store
}

// Pinger reports database reachability for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options configures NewMux. Stores, Tokens and CSRFKey are required.
type Options struct {
	Stores    *Stores
	DB        Pinger
	Collector *perf.Collector
	// Metrics enables /metrics and request histograms when non-nil.
	Metrics *perf.Metrics
	Tokens  *middleware.TokenManager
	// Treasurer receives pot notifications; nil disables them.
	Treasurer orchestrators.TreasurerNotifier

	AdminUsername  string
	CSRFKey        []byte
	SecureCookies  bool
	TrustedOrigins []string
	SessionTTL     time.Duration
	LoginRateLimit int // login attempts per minute per IP
	RequestRate    int // requests per second per IP
	SlowRequestMs  int

	// Now defaults to time.Now.
	Now func() time.Time
}

// app carries the wired dependencies every handler uses.
type app struct {
	stores        *Stores
	db            Pinger
	collector     *perf.Collector
	metrics       *perf.Metrics
	tokens        *middleware.TokenManager
	treasurer     orchestrators.TreasurerNotifier
	adminUsername string
	secure        bool
	sessionTTL    time.Duration
	loginLimiter  *middleware.RateLimiter
	pages         pageSet
	now           func() time.Time
}

// NewMux wires HTTP handlers for the app.
func NewMux(opts Options) (http.Handler, error) {
	if opts.Stores == nil || opts.Tokens == nil {
		return nil, errors.New("web: stores and token manager are required")
	}
	if len(opts.CSRFKey) != 32 {
		return nil, fmt.Errorf("web: CSRF key must be 32 bytes, got %d", len(opts.CSRFKey))
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	a := &app{
		stores:        opts.Stores,
		db:            opts.DB,
		collector:     opts.Collector,
		metrics:       opts.Metrics,
		tokens:        opts.Tokens,
		treasurer:     opts.Treasurer,
		adminUsername: opts.AdminUsername,
		secure:        opts.SecureCookies,
		sessionTTL:    opts.SessionTTL,
		pages:         pages,
		now:           opts.Now,
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.adminUsername == "" {
		a.adminUsername = "admin"
	}
	if a.sessionTTL <= 0 {
		a.sessionTTL = session.DefaultTTL
	}
	loginRate := opts.LoginRateLimit
	if loginRate <= 0 {
		loginRate = 10
	}
	a.loginLimiter = middleware.NewRateLimiter(loginRate, time.Minute)

	mux := http.NewServeMux()
	a.registerRoutes(mux)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Metrics.Registry, promhttp.HandlerOpts{}))
	}

	requestRate := opts.RequestRate
	if requestRate <= 0 {
		requestRate = 20
	}

	// Outer to inner: SecurityHeaders -> Timing -> RateLimit -> CSRF -> Auth -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.Timing(middleware.TimingOptions{
			Collector:     opts.Collector,
			Metrics:       opts.Metrics,
			SlowRequestMs: opts.SlowRequestMs,
		}),
		middleware.RateLimit(middleware.NewRateLimiter(requestRate, time.Second)),
		middleware.CSRF(opts.CSRFKey, middleware.CSRFOptions{
			Secure:         opts.SecureCookies,
			TrustedOrigins: opts.TrustedOrigins,
		}),
		middleware.Auth(opts.Tokens, opts.Stores.SessionStore),
	), nil
}

// actor describes the admin making the request for audit and notifications.
func actor(r *http.Request) orchestrators.Actor {
	a := orchestrators.Actor{
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
	if s, ok := middleware.GetSessionFromContext(r.Context()); ok {
		a.Username = s.Username
	}
	return a
}
