package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter mantém um limiter por cliente, descartando entradas ociosas.
type RateLimiter struct {
	limit     rate.Limit
	burst     int
	mu        sync.Mutex
	clients   map[string]*limiterEntry
	maxAge    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type limiterEntry struct {
	limiter *rate.Limiter
	updated time.Time
}

// NewRateLimiter cria instância compatível com múltiplas chaves.
func NewRateLimiter(reqPerSec float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Limit(reqPerSec),
		burst:   burst,
		clients: make(map[string]*limiterEntry),
		maxAge:  10 * time.Minute,
		now:     time.Now,
	}
}

func (r *RateLimiter) get(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) > time.Minute {
		for k, entry := range r.clients {
			if now.Sub(entry.updated) > r.maxAge {
				delete(r.clients, k)
			}
		}
		r.lastSweep = now
	}

	if entry, ok := r.clients[key]; ok {
		entry.updated = now
		return entry.limiter
	}

	lim := rate.NewLimiter(r.limit, r.burst)
	r.clients[key] = &limiterEntry{limiter: lim, updated: now}
	return lim
}

// retryAfter consome um token quando disponível; caso contrário devolve a espera.
func (r *RateLimiter) retryAfter(key string) (time.Duration, bool) {
	res := r.get(key).ReserveN(r.now(), 1)
	if !res.OK() {
		return time.Second, false
	}
	delay := res.DelayFrom(r.now())
	if delay > 0 {
		res.CancelAt(r.now())
		return delay, false
	}
	return 0, true
}

// IPRateLimit limita requisições por IP de origem.
func IPRateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wait, ok := limiter.retryAfter(clientIP(r))
			if !ok {
				secs := int(math.Ceil(wait.Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				writeStatus(w, http.StatusTooManyRequests, "limite de requisições excedido")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP depende de chi RealIP ter normalizado RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
