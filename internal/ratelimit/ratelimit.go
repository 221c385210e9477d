package ratelimit

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/openkombai/client/internal/errors"
	"codeberg.org/openkombai/client/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const keyPrefix = "openkombai:limiter"

// holds the counters behind the API rate limit
type Store struct {
	store  limiter.Store
	client *redis.Client
}

// creates an in-process store, or a Redis-backed one when redisURL is set so
// that several server instances share one budget
func NewStore(redisURL string) (*Store, error) {
	if redisURL == "" {
		return &Store{store: memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          keyPrefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		})}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec // G104: connection never became usable
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: keyPrefix})
	if err != nil {
		client.Close() //nolint:errcheck,gosec // G104: connection never became usable
		return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
	}

	logger.Info("rate limiter using redis")

	return &Store{store: store, client: client}, nil
}

// closes the Redis connection, if any
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}

	return s.client.Close()
}

// returns a per-client-IP limiter middleware. formatted uses the
// "<limit>-<period>" form, e.g. "60-M".
func Middleware(formatted string, store *Store) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", formatted, err)
	}

	instance := limiter.New(store.store, rate)

	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			logger.Warn("rate limit reached",
				"ip", c.ClientIP(),
				"path", c.Request.URL.Path,
			)

			errors.TooManyRequests(c, "too many requests, try again shortly")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			errors.InternalError(c, "rate limiter unavailable", err)
		}),
	), nil
}
