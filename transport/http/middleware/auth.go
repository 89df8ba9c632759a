package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"rental/config"
	"rental/infras/jwt"
	"rental/infras/otel"
	"rental/permissions"
	"rental/shared/constant"
	"rental/shared/failure"
	"rental/transport/http/response"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type skipAuthKey struct{}

type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole is the full authentication and authorization chain: APIKey, then Auth, then RBAC.
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, ot otel.Otel, perms *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       ot,
		permission: perms,
		cfg:        cfg,
	}
}

type identity struct {
	userID  string
	email   string
	role    string
	tokenID string
}

func (id identity) into(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, id.userID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, id.role)

	if id.email != "" {
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, id.email)
	}

	if id.tokenID != "" {
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, id.tokenID)
	}

	return ctx
}

func internalCaller(ctx context.Context) bool {
	skip, _ := ctx.Value(skipAuthKey{}).(bool)

	return skip
}

// routePermission resolves the chi pattern of the request and its entry in permissions.json.
// Nested routers report "/v1/listings/{id}/" for "/v1/listings/{id}", so the trailing slash is dropped.
func (m *authRoleImpl) routePermission(request *http.Request) (string, permissions.Permission) {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || rctx.Routes == nil {
		return request.URL.Path, permissions.Permission{}
	}

	pattern := rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
	if len(pattern) > 1 {
		pattern = strings.TrimSuffix(pattern, "/")
	}

	if m.permission == nil {
		return pattern, permissions.Permission{}
	}

	return pattern, m.permission.FindPermissions(pattern, request.Method)
}

func tokenFailure(err error) error {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return failure.Unauthorized("Token has expired")
	case errors.Is(err, jwt.ErrInvalidClaim):
		return failure.Unauthorized("Invalid token claims")
	case errors.Is(err, jwt.ErrInvalidToken):
		return failure.Unauthorized("Invalid token")
	default:
		return failure.Unauthorized("Token validation failed")
	}
}

// authenticate turns the Authorization header into an identity.
func (m *authRoleImpl) authenticate(ctx context.Context, header string) (identity, error) {
	if header == "" {
		return identity{}, failure.Unauthorized("Missing authorization header")
	}

	token, err := jwt.ExtractTokenFromHeader(header)
	if err != nil {
		return identity{}, failure.Unauthorized("Invalid authorization header format")
	}

	claims, err := m.jwtService.ValidateToken(ctx, token, jwt.AccessToken)
	if err != nil {
		return identity{}, tokenFailure(err)
	}

	if claims.Email == "" {
		log.Warn().Str("user_id", claims.UserID).Msg("access token carries no email")

		return identity{}, failure.Unauthorized("Invalid token claims")
	}

	return identity{userID: claims.UserID, email: claims.Email, role: claims.Role, tokenID: claims.TokenID}, nil
}

// Auth validates the bearer token and puts the caller's identity in the context. Public routes
// and callers already admitted by APIKey pass through untouched.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		if internalCaller(ctx) {
			next.ServeHTTP(writer, request)

			return
		}

		pattern, permission := m.routePermission(request)
		if permission.Skip {
			next.ServeHTTP(writer, request)

			return
		}

		ctx, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")
		scope.SetAttributes(map[string]any{
			"http.route":  pattern,
			"http.method": request.Method,
		})

		caller, err := m.authenticate(ctx, request.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		scope.End()
		next.ServeHTTP(writer, request.WithContext(caller.into(request.Context())))
	})
}

// RBAC checks the caller's role against the roles listed for the route. It runs after Auth.
// Without a permission table every protected route is refused.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		if internalCaller(ctx) || (m.permission != nil && m.permission.Skip) {
			next.ServeHTTP(writer, request)

			return
		}

		if m.permission == nil {
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		_, permission := m.routePermission(request)
		if permission.Skip {
			next.ServeHTTP(writer, request)

			return
		}

		role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
		if permission.Allows(role) {
			next.ServeHTTP(writer, request)

			return
		}

		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")
		scope.SetAttributes(map[string]any{
			"user_role":     role,
			"allowed_roles": permission.Permissions,
		})
		scope.TraceError(failure.ForbiddenError)
		scope.End()

		response.WithError(writer, failure.ForbiddenError)
	})
}

// APIKey admits service-to-service callers. A valid key bypasses the bearer token and acts
// with the internal role; requests without a key fall through to Auth.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		key := request.Header.Get(constant.RequestHeaderAPIKey)
		if key == "" {
			next.ServeHTTP(writer, request)

			return
		}

		if m.cfg.App.APIKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(m.cfg.App.APIKey)) != 1 {
			log.Warn().Str("remote", ClientAddress(request)).Msg("rejected api key")
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		ctx := context.WithValue(request.Context(), skipAuthKey{}, true)
		ctx = identity{userID: constant.InternalActor, role: constant.RoleInternal}.into(ctx)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
