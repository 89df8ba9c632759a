package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"rental/config"
	"rental/infras/otel"
	"rental/shared/cache"
	"rental/shared/constant"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const (
	otelHTTPScopeName = "http"
)

type AppMiddleware interface {
	Tracing(next http.Handler) http.Handler
	Origin(next http.Handler) http.Handler
	RateLimit() func(http.Handler) http.Handler
}

type appMiddleware struct {
	otel   otel.Otel
	config *config.Config
	cache  cache.RedisCache
}

func NewAppMiddleware(otel otel.Otel, config *config.Config, cache cache.RedisCache) AppMiddleware {
	return &appMiddleware{
		otel:   otel,
		config: config,
		cache:  cache,
	}
}

// Tracing opens the request span. The route pattern is only known after routing, so it is
// attached once the handler returns.
func (a *appMiddleware) Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := a.otel.NewScope(request.Context(), otelHTTPScopeName, fmt.Sprintf("%s %s", request.Method, request.URL.Path))
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"app.name":        a.config.App.Name,
			"http.path":       request.URL.Path,
			"http.method":     request.Method,
			"http.user_agent": request.UserAgent(),
			"http.host":       request.Host,
			"http.source":     ClientAddress(request),
		})

		wrapped := chiMiddleware.NewWrapResponseWriter(writer, request.ProtoMajor)

		next.ServeHTTP(wrapped, request.WithContext(ctx))

		if rctx := chi.RouteContext(request.Context()); rctx != nil {
			scope.SetAttribute("http.route", rctx.RoutePattern())
		}

		scope.SetAttribute("http.status_code", wrapped.Status())

		if wrapped.Status() >= http.StatusInternalServerError {
			scope.TraceError(fmt.Errorf("request failed with status %d", wrapped.Status()))
		}
	})
}

// Origin stores the client address in the request context for audit entries.
func (a *appMiddleware) Origin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := context.WithValue(request.Context(), constant.ContextKeyOriginAddress, ClientAddress(request))

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// ClientAddress resolves the caller's address: the first X-Forwarded-For hop, then X-Real-IP,
// then the socket peer without its port.
func ClientAddress(r *http.Request) string {
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if xri := strings.TrimSpace(r.Header.Get(constant.RequestHeaderRealIP)); xri != "" {
		return xri
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
