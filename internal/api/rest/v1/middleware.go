package v1

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/identity"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/telemetry"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const principalKey = "principal"

// AuthMiddleware requires a bearer token accepted by verifier and stores the
// resulting principal on the request context. A userId path or query parameter
// must name the authenticated user.
func AuthMiddleware(verifier identity.TokenVerifier, log logger.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			abortWithError(ctx, http.StatusUnauthorized, "missing bearer token")
			return
		}

		principal, err := verifier.Verify(ctx.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			if !errors.Is(err, identity.ErrInvalidToken) {
				log.Error("Token verification failed: ", err)
				abortWithError(ctx, http.StatusServiceUnavailable, "token verification unavailable")
				return
			}
			abortWithError(ctx, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		ctx.Set(principalKey, principal)

		for _, userID := range []string{ctx.Param("userId"), ctx.Query("userId")} {
			if userID != "" && userID != principal.UID {
				abortWithError(ctx, http.StatusForbidden, "userId does not match the authenticated user")
				return
			}
		}

		ctx.Next()
	}
}

// principalFrom returns the authenticated caller, or nil when authentication is disabled
func principalFrom(ctx *gin.Context) *identity.Principal {
	v, ok := ctx.Get(principalKey)
	if !ok {
		return nil
	}
	principal, _ := v.(*identity.Principal)
	return principal
}

// resolveUserID returns the user a request acts for. With authentication the
// caller may only act for itself and an empty userID defaults to the caller.
func resolveUserID(ctx *gin.Context, userID string) (string, bool) {
	principal := principalFrom(ctx)
	if principal == nil {
		return userID, true
	}
	if userID == "" {
		return principal.UID, true
	}
	return userID, userID == principal.UID
}

const (
	maxTrackedClients = 10000
	clientIdleTimeout = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client. Clients are identified by
// their authenticated UID, falling back to the client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	now     func() time.Time
	logger  logger.Logger
}

// NewRateLimiter creates a limiter allowing requestsPerSecond with the given burst per client
func NewRateLimiter(requestsPerSecond float64, burst int, log logger.Logger) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(requestsPerSecond),
		burst:   burst,
		now:     time.Now,
		logger:  log,
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	client, ok := rl.clients[key]
	if !ok {
		if len(rl.clients) >= maxTrackedClients {
			rl.pruneLocked(now)
		}
		client = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = client
	}
	client.lastSeen = now
	return client.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) pruneLocked(now time.Time) {
	for key, client := range rl.clients {
		if now.Sub(client.lastSeen) > clientIdleTimeout {
			delete(rl.clients, key)
		}
	}
}

// Handler returns the gin middleware. Rejected requests receive 429.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := ctx.ClientIP()
		if principal := principalFrom(ctx); principal != nil {
			key = "uid:" + principal.UID
		}

		if !rl.allow(key) {
			rl.logger.Warn("Rate limit exceeded for ", key, " on ", ctx.FullPath())
			ctx.Header("Retry-After", "1")
			abortWithError(ctx, http.StatusTooManyRequests, "too many requests")
			return
		}
		ctx.Next()
	}
}

// MetricsMiddleware records request counts and latency by route template
func MetricsMiddleware(metrics *telemetry.Metrics) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method
		metrics.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
