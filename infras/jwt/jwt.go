package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"rental/config"
	"rental/infras/otel"
	"rental/shared/constant"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
)

type TokenType string

const AccessToken TokenType = "access"

const (
	bearerScheme = "bearer"
	clockSkew    = 30 * time.Second
)

var (
	errMissingHeader = errors.New("authorization header is required")
	errNotBearer     = errors.New("authorization header must use the Bearer scheme")
)

// Claims mirrors the access tokens issued by the identity service.
type Claims struct {
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Role    string    `json:"role,omitempty"`
	TokenID string    `json:"token_id"`
	Type    TokenType `json:"type"`
	jwt.RegisteredClaims
}

// JWT validates tokens; this service never issues them.
type JWT interface {
	ValidateToken(ctx context.Context, tokenString string, tokenType TokenType) (*Claims, error)
}

type Service struct {
	secret []byte
	parser *jwt.Parser
	otel   otel.Otel
}

// New accepts HS256 tokens signed with the shared access secret. When an issuer is configured
// tokens from any other issuer are rejected.
func New(cfg *config.Config, ot otel.Otel) JWT {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	}

	if cfg.JWT.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.JWT.Issuer))
	}

	return &Service{
		secret: []byte(cfg.JWT.AccessSecret),
		parser: jwt.NewParser(options...),
		otel:   ot,
	}
}

func (s *Service) key(*jwt.Token) (any, error) {
	return s.secret, nil
}

func (s *Service) ValidateToken(ctx context.Context, tokenString string, tokenType TokenType) (claims *Claims, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".jwt.ValidateToken")
	defer scope.End()
	defer scope.TraceIfError(&err)

	claims = &Claims{}

	if _, err = s.parser.ParseWithClaims(tokenString, claims, s.key); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Type != tokenType || claims.UserID == "" {
		return nil, ErrInvalidClaim
	}

	scope.SetAttributes(map[string]any{"jwt.subject": claims.UserID, "jwt.role": claims.Role})

	return claims, nil
}

// ExtractTokenFromHeader returns the credentials of a "Bearer <token>" header. The scheme is
// matched case-insensitively.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errMissingHeader
	}

	scheme, token, found := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", errNotBearer
	}

	if token = strings.TrimSpace(token); token == "" {
		return "", errNotBearer
	}

	return token, nil
}
