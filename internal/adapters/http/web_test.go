package web

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"boetepot/internal/adapters/email"
	"boetepot/internal/adapters/http/middleware"
	"boetepot/internal/adapters/http/perf"
	accountStore "boetepot/internal/adapters/storage/account"
	auditStore "boetepot/internal/adapters/storage/audit"
	fineStore "boetepot/internal/adapters/storage/fine"
	playerStore "boetepot/internal/adapters/storage/player"
	reasonStore "boetepot/internal/adapters/storage/reason"
	sessionStore "boetepot/internal/adapters/storage/session"
	"boetepot/internal/adapters/storage/storagetest"
	"boetepot/internal/domain/account"

	"golang.org/x/crypto/bcrypt"
)

const (
	testPassword = "correct horse battery"
	testUsername = "penningmeester"
)

var (
	testSecret  = []byte("0123456789abcdef0123456789abcdef")
	testCSRFKey = []byte("fedcba9876543210fedcba9876543210")
	tokenRe     = regexp.MustCompile(`name="gorilla.csrf.Token" value="([^"]+)"`)
)

// recordingTreasurer captures notifications instead of sending mail.
type recordingTreasurer struct {
	mu       sync.Mutex
	recorded []email.FinesRecorded
	emptied  []email.PotEmptied
}

func (r *recordingTreasurer) NotifyFinesRecorded(_ context.Context, n email.FinesRecorded) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, n)
	return nil
}

func (r *recordingTreasurer) NotifyPotEmptied(_ context.Context, n email.PotEmptied) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emptied = append(r.emptied, n)
	return nil
}

func (r *recordingTreasurer) counts() (recorded, emptied int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.recorded), len(r.emptied)
}

// testEnv is a running server over an in-memory database with a cookie-keeping client.
type testEnv struct {
	t         *testing.T
	srv       *httptest.Server
	client    *http.Client
	stores    *Stores
	metrics   *perf.Metrics
	treasurer *recordingTreasurer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := storagetest.Open(t)
	stores := &Stores{
		PlayerStore:  playerStore.NewSQLStore(db),
		ReasonStore:  reasonStore.NewSQLStore(db),
		FineStore:    fineStore.NewSQLStore(db),
		AccountStore: accountStore.NewSQLStore(db),
		SessionStore: sessionStore.NewSQLStore(db),
		AuditStore:   auditStore.NewSQLStore(db),
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := stores.AccountStore.Create(context.Background(), account.Account{
		Username:     testUsername,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	metrics := perf.NewMetrics()
	treasurer := &recordingTreasurer{}
	handler, err := NewMux(Options{
		Stores:         stores,
		DB:             db,
		Collector:      perf.NewCollector(100),
		Metrics:        metrics,
		Tokens:         middleware.NewTokenManager(testSecret, time.Now),
		Treasurer:      treasurer,
		AdminUsername:  testUsername,
		CSRFKey:        testCSRFKey,
		LoginRateLimit: 100,
		RequestRate:    10000,
	})
	if err != nil {
		t.Fatalf("NewMux: %v", err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testEnv{t: t, srv: srv, client: client, stores: stores, metrics: metrics, treasurer: treasurer}
}

func (e *testEnv) do(req *http.Request) (*http.Response, string) {
	e.t.Helper()
	resp, err := e.client.Do(req)
	if err != nil {
		e.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		e.t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func (e *testEnv) get(path string) (*http.Response, string) {
	e.t.Helper()
	req, _ := http.NewRequest(http.MethodGet, e.srv.URL+path, nil)
	return e.do(req)
}

func (e *testEnv) getJSON(path string) (*http.Response, string) {
	e.t.Helper()
	req, _ := http.NewRequest(http.MethodGet, e.srv.URL+path, nil)
	req.Header.Set("Accept", "application/json")
	return e.do(req)
}

// token reads a CSRF token from a page that renders a form.
func (e *testEnv) token(page string) string {
	e.t.Helper()
	_, body := e.get(page)
	m := tokenRe.FindStringSubmatch(body)
	if m == nil {
		e.t.Fatalf("no CSRF token on %s", page)
	}
	return m[1]
}

// postRaw submits form without adding a CSRF token.
func (e *testEnv) postRaw(path string, form url.Values, accept string) (*http.Response, string) {
	e.t.Helper()
	req, _ := http.NewRequest(http.MethodPost, e.srv.URL+path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return e.do(req)
}

// post submits form with a CSRF token taken from tokenPage.
func (e *testEnv) post(tokenPage, path string, form url.Values) (*http.Response, string) {
	e.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("gorilla.csrf.Token", e.token(tokenPage))
	return e.postRaw(path, form, "")
}

// login signs the client in as the admin.
func (e *testEnv) login() {
	e.t.Helper()
	resp, _ := e.post("/admin/login", "/admin/login", url.Values{"password": {testPassword}})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/admin" {
		e.t.Fatalf("login: status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s: status = %d, want %d", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want)
	}
}

func expectRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	expectStatus(t, resp, http.StatusSeeOther)
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

func expectContains(t *testing.T, body string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
}
