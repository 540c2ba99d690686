package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

var generationWindow = time.Minute

type meterWindow struct {
	used    int
	resetAt time.Time
}

// GenerationLimit caps how many generation calls a client may start per
// minute. Only the endpoints that reach the remote prompt and image services
// are metered; snapshot and gallery reads are not.
func GenerationLimit(perMinute int) func(http.Handler) http.Handler {
	var mu sync.Mutex
	windows := make(map[string]*meterWindow)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := callerIP(r)
			now := time.Now()
			mu.Lock()
			win, ok := windows[caller]
			if !ok || now.After(win.resetAt) {
				win = &meterWindow{resetAt: now.Add(generationWindow)}
				windows[caller] = win
			}
			if win.used >= perMinute {
				mu.Unlock()
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			win.used++
			mu.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}

// callerIP prefers the first parseable X-Forwarded-For hop, then the
// connection's own address.
func callerIP(r *http.Request) string {
	for _, hop := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		hop = strings.TrimSpace(hop)
		if net.ParseIP(hop) != nil {
			return hop
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
