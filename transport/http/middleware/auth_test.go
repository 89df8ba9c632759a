package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"rental/config"
	"rental/infras/jwt"
	jwtMocks "rental/infras/jwt/mocks"
	otelMocks "rental/infras/otel/mocks"
	"rental/permissions"
	"rental/shared/constant"
	"rental/transport/http/middleware"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const apiKey = "internal-key"

func testPermissions() *permissions.PermissionData {
	return &permissions.PermissionData{
		Endpoints: []permissions.Permission{
			{Path: "/v1/listings/{id}", Method: http.MethodGet, Skip: true},
			{Path: "/v1/reservations", Method: http.MethodGet, Permissions: []string{"admin", "superadmin"}},
			{Path: "/v1/reservations/mine", Method: http.MethodGet, Permissions: []string{"user", "admin"}},
		},
	}
}

func identity(writer http.ResponseWriter, request *http.Request) {
	userID, _ := request.Context().Value(constant.ContextKeyUserID).(string)
	role, _ := request.Context().Value(constant.ContextKeyUserRole).(string)

	fmt.Fprintf(writer, "%s:%s", userID, role)
}

func newRouter(jwtService jwt.JWT, perms *permissions.PermissionData) http.Handler {
	cfg := &config.Config{}
	cfg.App.APIKey = apiKey

	auth := middleware.NewAuthRoleMiddleware(jwtService, otelMocks.NewOtel(), perms, cfg)

	router := chi.NewRouter()
	router.Group(func(api chi.Router) {
		api.Use(auth.APIKey)
		api.Use(auth.Auth)
		api.Use(auth.RBAC)

		api.Route("/v1", func(v1 chi.Router) {
			v1.Route("/listings/{id}", func(listing chi.Router) {
				listing.Get("/", identity)
			})
			v1.Route("/reservations", func(reservations chi.Router) {
				reservations.Get("/", identity)
				reservations.Get("/mine", identity)
			})
		})
	})

	return router
}

func TestAuthRole(t *testing.T) {
	user := &jwt.Claims{UserID: "user-1", Email: "user@rental.test", Role: "user", Type: jwt.AccessToken}
	admin := &jwt.Claims{UserID: "admin-1", Email: "admin@rental.test", Role: "admin", Type: jwt.AccessToken}

	tests := []struct {
		name     string
		path     string
		headers  map[string]string
		mock     func(m *jwtMocks.MockJWT)
		perms    *permissions.PermissionData
		wantCode int
		wantBody string
	}{
		{
			name:     "public route needs no token",
			path:     "/v1/listings/listing-1",
			perms:    testPermissions(),
			wantCode: http.StatusOK,
			wantBody: ":",
		},
		{
			name:     "missing authorization header",
			path:     "/v1/reservations/mine",
			perms:    testPermissions(),
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "header without bearer prefix",
			path:     "/v1/reservations/mine",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			perms:    testPermissions(),
			wantCode: http.StatusUnauthorized,
		},
		{
			name:    "expired token",
			path:    "/v1/reservations/mine",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer expired"},
			mock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "expired", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			perms:    testPermissions(),
			wantCode: http.StatusUnauthorized,
		},
		{
			name:    "claims without email",
			path:    "/v1/reservations/mine",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer anonymous"},
			mock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "anonymous", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "user-1", Role: "user"}, nil)
			},
			perms:    testPermissions(),
			wantCode: http.StatusUnauthorized,
		},
		{
			name:    "user reaches own reservations",
			path:    "/v1/reservations/mine",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer user"},
			mock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "user", jwt.AccessToken).Return(user, nil)
			},
			perms:    testPermissions(),
			wantCode: http.StatusOK,
			wantBody: "user-1:user",
		},
		{
			name:    "user is refused the admin listing",
			path:    "/v1/reservations",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer user"},
			mock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "user", jwt.AccessToken).Return(user, nil)
			},
			perms:    testPermissions(),
			wantCode: http.StatusForbidden,
		},
		{
			name:    "admin lists every reservation",
			path:    "/v1/reservations",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer admin"},
			mock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "admin", jwt.AccessToken).Return(admin, nil)
			},
			perms:    testPermissions(),
			wantCode: http.StatusOK,
			wantBody: "admin-1:admin",
		},
		{
			name:    "missing permission table refuses everything",
			path:    "/v1/reservations/mine",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer admin"},
			mock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "admin", jwt.AccessToken).Return(admin, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "api key acts as the internal caller",
			path:     "/v1/reservations",
			headers:  map[string]string{constant.RequestHeaderAPIKey: apiKey},
			perms:    testPermissions(),
			wantCode: http.StatusOK,
			wantBody: constant.InternalActor + ":" + constant.RoleInternal,
		},
		{
			name:     "wrong api key",
			path:     "/v1/reservations",
			headers:  map[string]string{constant.RequestHeaderAPIKey: "guess"},
			perms:    testPermissions(),
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			jwtService := jwtMocks.NewMockJWT(ctrl)

			if tt.mock != nil {
				tt.mock(jwtService)
			}

			request := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for key, value := range tt.headers {
				request.Header.Set(key, value)
			}

			recorder := httptest.NewRecorder()
			newRouter(jwtService, tt.perms).ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantCode, recorder.Code)

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, recorder.Body.String())
			}
		})
	}
}
