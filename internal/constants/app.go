package constants

// Application Information
const (
	AppName    = "LawHelp Auth Service"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "3001"
	DefaultEnvironment = EnvDevelopment
)

// Rate Limit Key Prefixes (redis)
const (
	RateLimitKeyPrefix = "authsvc:ratelimit:"
)

// Two-Factor Methods (closed set, exhaustively handled at branch points)
const (
	TwoFactorMethodNone  = "none"
	TwoFactorMethodEmail = "email"
	TwoFactorMethodTOTP  = "totp"
)

// Verification Code Purposes
const (
	CodePurposeEmailVerification = "email_verification"
	CodePurposeTwoFactorEmail    = "two_factor_email"
	CodePurposePasswordReset     = "password_reset"
)

// Log Levels
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
	LogLevelFatal = "fatal"
)
