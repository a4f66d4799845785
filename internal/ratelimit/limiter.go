// Package ratelimit provides a fixed-window request limiter for the login
// endpoint. Counters live in Redis so limits hold across replicas; when
// Redis is unavailable the limiter fails open rather than blocking logins.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"accounts-service/internal/models"
)

// CounterStore increments a counter and reports its value within the window.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounterStore backs the limiter with Redis INCR + EXPIRE.
type RedisCounterStore struct {
	client *redis.Client
}

func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Limiter rejects callers exceeding limit requests per window, keyed by
// client IP and route.
type Limiter struct {
	store  CounterStore
	limit  int64
	window time.Duration
	logger *logrus.Entry
}

func NewLimiter(store CounterStore, limit int64, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		logger: logrus.WithField("component", "ratelimit"),
	}
}

// Middleware enforces the limit for the wrapped route.
func (l *Limiter) Middleware(route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.store == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", route, c.ClientIP())
		count, err := l.store.Incr(c.Request.Context(), key, l.window)
		if err != nil {
			// Fail open: a Redis outage should not lock every operator out.
			l.logger.WithError(err).Warn("Rate limit store unavailable")
			c.Next()
			return
		}

		if count > l.limit {
			c.Header("Retry-After", fmt.Sprintf("%d", int(l.window.Seconds())))
			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "RATE_LIMITED",
					Message: "Too many requests, slow down",
				},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
