package middleware

import (
	"fmt"
	"net/http"

	"github.com/polyglotta/polyglotta-api/internal/request"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// DefaultAuthRate is the default rate for unauthenticated auth routes
const DefaultAuthRate = "10-M"

// RateLimit returns middleware that limits requests per client IP using
// ulule/limiter backed by Redis. The rate uses limiter's formatted notation,
// e.g. "10-M" for ten per minute.
func RateLimit(redisClient *redis.Client, rateStr string) (func(http.Handler) http.Handler, error) {
	if rateStr == "" {
		rateStr = DefaultAuthRate
	}

	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate %q: %w", rateStr, err)
	}

	store, err := redisstore.NewStore(redisClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create limiter store: %w", err)
	}

	instance := limiter.New(store, rate)
	keyGetter := func(r *http.Request) string {
		return request.ClientIP(r)
	}

	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(keyGetter))
	return mw.Handler, nil
}
