package middleware

import (
	"net"
	"net/http"
	"strconv"

	"rolloff/shared"
	"rolloff/shared/constant"
	"rolloff/transport/http/response"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"
	bucketRead        = "read"
	bucketWrite       = "write"
)

// RateLimit counts requests per client in fixed windows. Writes (quotes, bookings, card and signature
// uploads) draw from a smaller budget than reads. A cache outage lets traffic through.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := a.config.App.RateLimiter
			if !limiter.Enable || limiter.WindowSeconds <= 0 {
				next.ServeHTTP(w, r)

				return
			}

			bucket, limit := bucketRead, limiter.MaxRequests
			if isWrite(r.Method) && limiter.WriteMaxRequests > 0 {
				bucket, limit = bucketWrite, limiter.WriteMaxRequests
			}

			key := shared.BuildCacheKey(cacheKeyRateLimit, bucket, a.getClientIP(r))

			count, err := a.cache.Increment(r.Context(), key, limiter.WindowSeconds)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, letting request through")
				next.ServeHTTP(w, r)

				return
			}

			remaining := max(0, int64(limit)-count)

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(limit))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.FormatInt(remaining, 10))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limiter.WindowSeconds))

			if count > int64(limit) {
				response.WithRequestLimitExceeded(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func (a *appMiddleware) getUA(r *http.Request) string {
	if ua := r.Header.Get(constant.RequestHeaderUserAgent); ua != constant.Empty {
		return ua
	}

	return "unknown"
}

// getClientIP relies on chi's RealIP middleware having already rewritten RemoteAddr from the proxy headers.
func (a *appMiddleware) getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
