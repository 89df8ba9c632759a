package jwt_test

import (
	"context"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental/config"
	"rental/infras/jwt"
	"rental/infras/otel/mocks"
)

const secret = "test-secret"

func sign(t *testing.T, method gojwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()

	token, err := gojwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func claims(expiresAt time.Time) jwt.Claims {
	now := time.Now()

	return jwt.Claims{
		UserID:  "user-1",
		Email:   "user@rental.test",
		Role:    "admin",
		TokenID: "token-1",
		Type:    jwt.AccessToken,
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "identity",
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(expiresAt),
		},
	}
}

func TestValidateToken(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = secret
	cfg.JWT.Issuer = "identity"

	service := jwt.New(cfg, mocks.NewOtel())

	refresh := claims(time.Now().Add(time.Hour))
	refresh.Type = "refresh"

	otherIssuer := claims(time.Now().Add(time.Hour))
	otherIssuer.Issuer = "somebody-else"

	noUser := claims(time.Now().Add(time.Hour))
	noUser.UserID = ""

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:  "valid access token",
			token: sign(t, gojwt.SigningMethodHS256, []byte(secret), claims(time.Now().Add(time.Hour))),
		},
		{
			name:    "expired",
			token:   sign(t, gojwt.SigningMethodHS256, []byte(secret), claims(time.Now().Add(-time.Hour))),
			wantErr: jwt.ErrExpiredToken,
		},
		{
			name:    "wrong secret",
			token:   sign(t, gojwt.SigningMethodHS256, []byte("other"), claims(time.Now().Add(time.Hour))),
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name:    "wrong algorithm",
			token:   sign(t, gojwt.SigningMethodHS512, []byte(secret), claims(time.Now().Add(time.Hour))),
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name:    "wrong issuer",
			token:   sign(t, gojwt.SigningMethodHS256, []byte(secret), otherIssuer),
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name:    "refresh token",
			token:   sign(t, gojwt.SigningMethodHS256, []byte(secret), refresh),
			wantErr: jwt.ErrInvalidClaim,
		},
		{
			name:    "missing user",
			token:   sign(t, gojwt.SigningMethodHS256, []byte(secret), noUser),
			wantErr: jwt.ErrInvalidClaim,
		},
		{
			name:    "garbage",
			token:   "not-a-token",
			wantErr: jwt.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ValidateToken(context.Background(), tt.token, jwt.AccessToken)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "user-1", got.UserID)
			assert.Equal(t, "admin", got.Role)
		})
	}
}

func TestValidateTokenRequiresExpiry(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = secret

	noExpiry := claims(time.Now())
	noExpiry.ExpiresAt = nil

	_, err := jwt.New(cfg, mocks.NewOtel()).ValidateToken(context.Background(), sign(t, gojwt.SigningMethodHS256, []byte(secret), noExpiry), jwt.AccessToken)

	require.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer   abc.def.ghi ", want: "abc.def.ghi"},
		{header: "Basic abc", wantErr: true},
		{header: "Bearer", wantErr: true},
		{header: "Bearer  ", wantErr: true},
		{header: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, err := jwt.ExtractTokenFromHeader(tt.header)

			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}
