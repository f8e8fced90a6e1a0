package constants

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// Context Keys for request tracking and metadata
const (
	CtxKeyRequestID ContextKey = "request_id"
	CtxKeyUserID    ContextKey = "user_id"
	CtxKeyClientIP  ContextKey = "client_ip"
	CtxKeyUserAgent ContextKey = "user_agent"
	CtxKeyStartTime ContextKey = "start_time"
	CtxKeyModule    ContextKey = "module"
	CtxKeyFunction  ContextKey = "function"
)

// Gin context keys set by the auth middleware
const (
	GinKeyUserID    = "user_id"
	GinKeyEmail     = "email"
	GinKeyFirstName = "first_name"
	GinKeyLastName  = "last_name"
	GinKeyIsAdmin   = "is_admin"
	GinKeyClaims    = "claims"
)
