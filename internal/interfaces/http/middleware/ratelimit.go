package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/storemanager/backend/internal/infrastructure/auth"
	"github.com/storemanager/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// CounterStore counts hits per key inside a fixed time window
type CounterStore interface {
	// Incr increments the counter for key and returns the new count.
	// The counter expires when the window that created it ends.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounterStore backs rate-limit counters with Redis so limits hold
// across replicas
type RedisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore creates a Redis-backed counter store
func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// MemoryCounterStore is the in-process fallback used when Redis is not
// configured. Limits then apply per replica.
type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]*memoryCounter
}

type memoryCounter struct {
	count     int64
	expiresAt time.Time
}

// NewMemoryCounterStore creates an in-memory counter store
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{counters: make(map[string]*memoryCounter)}
}

func (s *MemoryCounterStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	c, ok := s.counters[key]
	if !ok || now.After(c.expiresAt) {
		s.counters[key] = &memoryCounter{count: 1, expiresAt: now.Add(window)}
		s.evictExpired(now)
		return 1, nil
	}
	c.count++
	return c.count, nil
}

// evictExpired drops stale counters; called under s.mu
func (s *MemoryCounterStore) evictExpired(now time.Time) {
	for key, c := range s.counters {
		if now.After(c.expiresAt) {
			delete(s.counters, key)
		}
	}
}

// RateLimiterConfig holds configuration for the rate limit middleware
type RateLimiterConfig struct {
	// Store holds the counters; required
	Store CounterStore
	// Limit is the number of requests allowed per window
	Limit int
	// Window is the fixed counting window
	Window time.Duration
	// JWTService, when set, keys counters by authenticated user id.
	// Unauthenticated requests fall back to the client IP.
	JWTService *auth.JWTService
	// Logger for middleware logging
	Logger *zap.Logger
}

// RateLimiter enforces a fixed-window request budget per caller
type RateLimiter struct {
	cfg RateLimiterConfig
}

// NewRateLimiter creates a rate limiter. Window defaults to one minute and
// Limit to 100 requests.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 100
	}
	if cfg.Store == nil {
		cfg.Store = NewMemoryCounterStore()
	}
	return &RateLimiter{cfg: cfg}
}

// key identifies the caller: authenticated user id when a valid bearer token
// is present, client IP otherwise
func (rl *RateLimiter) key(c *gin.Context) string {
	if rl.cfg.JWTService != nil {
		header := c.GetHeader(AuthHeaderKey)
		if strings.HasPrefix(header, BearerPrefix) {
			if claims, err := rl.cfg.JWTService.ValidateToken(strings.TrimPrefix(header, BearerPrefix)); err == nil {
				return "ratelimit:user:" + claims.UserID
			}
		}
	}
	return "ratelimit:ip:" + c.ClientIP()
}

// Middleware returns the gin handler enforcing the limit
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := rl.cfg.Store.Incr(c.Request.Context(), rl.key(c), rl.cfg.Window)
		if err != nil {
			// Fail open: a broken counter store must not take the API down
			if rl.cfg.Logger != nil {
				rl.cfg.Logger.Warn("rate limit store unavailable", zap.Error(err))
			}
			c.Next()
			return
		}

		remaining := int64(rl.cfg.Limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(rl.cfg.Limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse(dto.ErrCodeRateLimited, "Too many requests. Please try again later."))
			return
		}

		c.Next()
	}
}
