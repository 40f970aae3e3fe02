package middlewares

import (
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client may stay silent before its bucket is
// dropped. A bucket idle that long has refilled anyway.
const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-IP token bucket. A client that empties its bucket is
// blocked for blockTime before it gets a fresh one.
type RateLimiter struct {
	log       *zap.Logger
	visitors  map[string]*visitor
	blocked   map[string]time.Time
	mu        sync.Mutex
	perSecond rate.Limit
	burst     int
	blockTime time.Duration
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(log *zap.Logger, perSecond float64, burst int, blockTime time.Duration) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	idleTTL := limiterIdleTTL
	if blockTime > idleTTL {
		idleTTL = blockTime
	}
	return &RateLimiter{
		log:       log,
		visitors:  make(map[string]*visitor),
		blocked:   make(map[string]time.Time),
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		blockTime: blockTime,
		idleTTL:   idleTTL,
		now:       time.Now,
	}
}

func (r *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ip, _, err := net.SplitHostPort(req.RemoteAddr)
		if err != nil {
			ip = req.RemoteAddr
		}

		if !r.allow(ip) {
			r.log.Info("RateLimiter blocked client",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(req.Context())),
				zap.String(constvars.LoggingRemoteAddrKey, ip),
			)
			w.Header().Set(constvars.HeaderRetryAfter, strconv.Itoa(int(r.blockTime.Seconds())))
			utils.BuildErrorResponse(r.log, w, exceptions.ErrTooManyRequests(nil))
			return
		}

		next.ServeHTTP(w, req)
	})
}

func (r *RateLimiter) allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	if blockedUntil, found := r.blocked[ip]; found {
		if now.Before(blockedUntil) {
			return false
		}
		delete(r.blocked, ip)
		delete(r.visitors, ip)
	}

	v, exists := r.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(r.perSecond, r.burst)}
		r.visitors[ip] = v
	}
	v.lastSeen = now

	if !v.limiter.AllowN(now, 1) {
		r.blocked[ip] = now.Add(r.blockTime)
		return false
	}
	return true
}

// sweep drops idle buckets and expired blocks at most once per idleTTL.
// Caller holds r.mu.
func (r *RateLimiter) sweep(now time.Time) {
	if now.Sub(r.lastSweep) < r.idleTTL {
		return
	}
	r.lastSweep = now

	for ip, until := range r.blocked {
		if !now.Before(until) {
			delete(r.blocked, ip)
			delete(r.visitors, ip)
		}
	}
	for ip, v := range r.visitors {
		if now.Sub(v.lastSeen) >= r.idleTTL {
			delete(r.visitors, ip)
		}
	}
}

// size reports the number of tracked clients.
func (r *RateLimiter) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visitors) + len(r.blocked)
}
