package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainSession "boetepot/internal/domain/session"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "boetepot_session"

var ErrInvalidToken = errors.New("invalid or expired session token")

// Claims are the signed contents of the session cookie. ID (jti) is the session id.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens with HS256.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

// NewTokenManager creates a TokenManager. now may be nil to use time.Now.
func NewTokenManager(secret []byte, now func() time.Time) *TokenManager {
	if now == nil {
		now = time.Now
	}
	return &TokenManager{secret: secret, now: now}
}

// Issue signs a token for s that expires with it.
// PRE: s was created by session.New
// POST: returns a compact JWT with jti = s.ID, sub = s.Username
func (m *TokenManager) Issue(s domainSession.Session) (string, error) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        s.ID,
		Subject:   s.Username,
		IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Parse verifies signature and expiry and returns the claims.
func (m *TokenManager) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SessionLookup loads the server-side session row for a token.
type SessionLookup interface {
	GetByID(ctx context.Context, id string) (domainSession.Session, error)
}

// Auth returns middleware that resolves the session cookie to an active session and puts it in context.
// It does NOT block anonymous requests; use RequireAdmin for that.
// INVARIANT: a token alone is never enough; the stored session must be unexpired and unrevoked
func Auth(tokens *TokenManager, sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := tokens.Parse(cookie.Value)
			if err != nil {
				slog.Debug("auth_event", "event", "token_rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			s, err := sessions.GetByID(r.Context(), claims.ID)
			if err != nil {
				slog.Debug("auth_event", "event", "session_lookup_failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if s.State(tokens.now()) != domainSession.StateAuthenticated {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// RequireAdmin blocks anonymous requests. Pages redirect to the login form; JSON callers get 401.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			if WantsJSON(r) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"niet ingelogd"}`))
				return
			}
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WantsJSON reports whether the caller asked for a JSON response.
func WantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// GetSessionFromContext extracts the active session from the request context.
func GetSessionFromContext(ctx context.Context) (domainSession.Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(domainSession.Session)
	return s, ok
}

// WithSession returns ctx carrying s. Used by tests and by handlers that just logged in.
func WithSession(ctx context.Context, s domainSession.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
