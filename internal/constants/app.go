package constants

// Application Information
const (
	AppName    = "ClientBridge CRM"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Service Names
const (
	ServiceAuth   = "auth-service"
	ServiceClient = "client-service"
	ServiceJob    = "job-service"
)

// Authentication
const (
	RefreshTokenCookie = "refreshToken"
	AuthCallbackPath   = "/auth/callback"
)

// Social Providers
const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

// Redis Key Prefixes
const (
	CacheKeyPrefix     = "crm:"
	CacheKeyOAuthState = CacheKeyPrefix + "oauth:state:"
	CacheKeyRateLimit  = CacheKeyPrefix + "ratelimit:"
)
