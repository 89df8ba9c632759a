package constant

import "time"

type contextKey string

// Request-scoped identity, filled by the auth middlewares.
const (
	ContextKeyUserID        contextKey = "user_id"
	ContextKeyUserEmail     contextKey = "user_email"
	ContextKeyUserRole      contextKey = "user_role"
	ContextKeyTokenID       contextKey = "token_id"
	ContextKeyOriginAddress contextKey = "origin_address"
)

// RoleInternal and InternalActor identify callers holding the service api key.
const (
	RoleInternal  = "internal"
	InternalActor = "internal"
)

const (
	RequestParamID             = "id"
	RequestParamPage           = "page"
	RequestParamLimit          = "limit"
	RequestParamSortBy         = "sort_by"
	RequestParamSortDir        = "sort_dir"
	RequestParamIncludeDeleted = "include_deleted"

	DefaultValuePage  = 1
	DefaultValueLimit = 10
	MaxValueLimit     = 100
)

const (
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

const (
	DateFormat     = time.RFC3339
	DateOnlyFormat = time.DateOnly
)

// Tracer scopes. Span names are "<scope>.<Operation>".
const (
	OtelHandlerScopeName    = "handler"
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelWorkerScopeName     = "worker"
	OtelSchedulerScopeName  = "scheduler"
	OtelExternalScopeName   = "external"
	OtelS3ScopeName         = "s3"
	OtelMailScopeName       = "mail"
	OtelKafkaScopeName      = "kafka"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderAPIKey             = "X-API-Key"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"

	ContentTypeJSON = "application/json"
	ContentTypeHTML = "text/html"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	Wildcard = "*"
	Empty    = ""
)
