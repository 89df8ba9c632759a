package middleware

import (
	"net/http"
	"rental/shared"
	"rental/shared/constant"
	"rental/transport/http/response"
	"strconv"

	"github.com/rs/zerolog/log"
)

const cacheKeyRateLimit = "limiter"

// RateLimit counts requests per client address and user agent in fixed windows.
// Counter failures never block traffic.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			limits := a.config.App.RateLimiter
			if !limits.Enable {
				next.ServeHTTP(writer, request)

				return
			}

			key := shared.BuildCacheKey(cacheKeyRateLimit, ClientAddress(request), userAgent(request))

			count, err := a.cache.Increment(request.Context(), key, limits.WindowSeconds)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
				next.ServeHTTP(writer, request)

				return
			}

			header := writer.Header()
			header.Set(constant.RequestHeaderRateLimit, strconv.Itoa(limits.MaxRequests))
			header.Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limits.WindowSeconds))
			header.Set(constant.RequestHeaderRateLimitRemaining, strconv.FormatInt(max(0, int64(limits.MaxRequests)-count), 10))

			if count > int64(limits.MaxRequests) {
				response.WithRequestLimitExceeded(writer)

				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

func userAgent(request *http.Request) string {
	if ua := request.Header.Get(constant.RequestHeaderUserAgent); ua != "" {
		return ua
	}

	return "unknown"
}
