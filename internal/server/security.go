package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/safequest/engine/internal/logger"
)

// AuthMiddleware validates the API key on every non-public route using
// a constant-time comparison. An empty configured key disables auth
// (local development only).
func AuthMiddleware(apiKey string, trustedProxies []string, guard *AbuseGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" || isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				ip := extractIP(r, trustedProxies)
				guard.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware enforces the per-IP request ceiling.
func RateLimitMiddleware(trustedProxies []string, guard *AbuseGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := extractIP(r, trustedProxies)
			if !guard.AllowRequest(ip) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware adds standard security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderContentType, HeaderValueNoSniff)
			w.Header().Set(HeaderFrameOptions, HeaderValueSameOrigin)
			w.Header().Set(HeaderXSSProtection, HeaderValueXSSBlock)
			w.Header().Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
			next.ServeHTTP(w, r)
		})
	}
}

func isPublicPath(path string) bool {
	for _, p := range PublicPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// AbuseGuard tracks per-IP failed auth attempts and request volume in
// five-minute windows.
type AbuseGuard struct {
	mu             sync.Mutex
	failedAuthByIP map[string]int
	requestsByIP   map[string]int
	windowStart    time.Time
}

// NewAbuseGuard creates a new AbuseGuard
func NewAbuseGuard() *AbuseGuard {
	return &AbuseGuard{
		failedAuthByIP: make(map[string]int),
		requestsByIP:   make(map[string]int),
		windowStart:    time.Now(),
	}
}

// RecordFailedAuth records a failed authentication attempt and alerts
// past the threshold.
func (g *AbuseGuard) RecordFailedAuth(ip string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rotateWindow()
	g.failedAuthByIP[ip]++

	if g.failedAuthByIP[ip] >= failedAuthAlertCount {
		slog.Warn("Repeated failed authentication attempts",
			"ip", ip, "count", g.failedAuthByIP[ip])
	}
}

// AllowRequest counts a request and reports whether the IP is under
// the window ceiling.
func (g *AbuseGuard) AllowRequest(ip string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rotateWindow()
	g.requestsByIP[ip]++

	if g.requestsByIP[ip] > rateLimitWindowRequests {
		if g.requestsByIP[ip]%100 == 0 { // avoid log spam
			slog.Warn("Blocking high request rate",
				"ip", ip, "count_in_window", g.requestsByIP[ip])
		}
		return false
	}
	return true
}

// rotateWindow clears counters once the window elapses. Caller holds
// the mutex.
func (g *AbuseGuard) rotateWindow() {
	if time.Since(g.windowStart) > 5*time.Minute {
		g.failedAuthByIP = make(map[string]int)
		g.requestsByIP = make(map[string]int)
		g.windowStart = time.Now()
	}
}

// extractIP gets the client IP. X-Forwarded-For is honored only when
// the direct peer is a trusted proxy, and then only its rightmost hop.
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	trusted := false
	for _, proxy := range trustedProxies {
		if proxy == remoteIP {
			trusted = true
			break
		}
	}

	if trusted {
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			hops := strings.Split(forwarded, ",")
			return strings.TrimSpace(hops[len(hops)-1])
		}
	}

	return remoteIP
}
