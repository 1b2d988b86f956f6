package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	CookieName    = "judgesched_session"
	SessionExpiry = 24 * time.Hour

	passwordWordCount = 3
)

// Words for generated admin passwords
var passwordWords = []string{
	"panel", "rubric", "score", "tempo", "encore",
	"brass", "choir", "reed", "string", "podium",
	"medal", "octave", "cadence", "forte", "sonata",
	"anthem", "chorus", "ballad", "rondo",
}

// Auth guards the admin API with a single shared password. A successful
// login yields a token that is accepted from the session cookie or from an
// Authorization bearer header.
type Auth struct {
	password string
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]time.Time // token -> expiry
}

// New creates a new Auth instance with the given password
func New(password string) *Auth {
	return &Auth{
		password: password,
		now:      time.Now,
		sessions: make(map[string]time.Time),
	}
}

// GeneratePassword returns dash-joined words picked uniformly at random,
// e.g. "choir-tempo-medal"
func GeneratePassword() string {
	words := make([]string, passwordWordCount)
	limit := big.NewInt(int64(len(passwordWords)))
	for i := range words {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic("auth: system randomness unavailable: " + err.Error())
		}
		words[i] = passwordWords[n.Int64()]
	}
	return strings.Join(words, "-")
}

// Login checks the password and opens a session. Expired sessions are
// dropped on every successful login.
func (a *Auth) Login(password string) (string, bool) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) != 1 {
		return "", false
	}

	token := generateToken()
	now := a.now()
	a.mu.Lock()
	for t, expiry := range a.sessions {
		if now.After(expiry) {
			delete(a.sessions, t)
		}
	}
	a.sessions[token] = now.Add(SessionExpiry)
	a.mu.Unlock()

	return token, true
}

// Logout invalidates a session token
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}

// LogoutRequest invalidates every token the request carries, bearer and
// cookie alike
func (a *Auth) LogoutRequest(r *http.Request) {
	if token, ok := bearerToken(r); ok && token != "" {
		a.Logout(token)
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		a.Logout(cookie.Value)
	}
}

// ValidateSession reports whether token belongs to a live session
func (a *Auth) ValidateSession(token string) bool {
	if token == "" {
		return false
	}
	a.mu.RLock()
	expiry, exists := a.sessions[token]
	a.mu.RUnlock()

	if !exists {
		return false
	}
	if a.now().After(expiry) {
		a.Logout(token)
		return false
	}
	return true
}

// ActiveSessions counts sessions that have not expired
func (a *Auth) ActiveSessions() int {
	now := a.now()
	a.mu.RLock()
	defer a.mu.RUnlock()
	n := 0
	for _, expiry := range a.sessions {
		if !now.After(expiry) {
			n++
		}
	}
	return n
}

// GetSessionFromRequest validates the request's token. A bearer header,
// when present, is the only credential considered; otherwise the session
// cookie is used.
func (a *Auth) GetSessionFromRequest(r *http.Request) bool {
	if token, ok := bearerToken(r); ok {
		return a.ValidateSession(token)
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	return a.ValidateSession(cookie.Value)
}

// bearerToken extracts the token of an Authorization header using the
// Bearer scheme. The scheme name is case-insensitive.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// RequireAuthAPI middleware for API endpoints (returns 401)
func (a *Auth) RequireAuthAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.GetSessionFromRequest(r) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, ok := bearerToken(r); ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="judgesched"`)
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"UNAUTHORIZED","error":"Unauthorized - please log in"}`))
	})
}

// SetSessionCookie sets the session cookie on the response
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionExpiry.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// generateToken creates a random 32-byte session token, hex encoded
func generateToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
