package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
)

// HTTP Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
)

// Common HTTP Error Messages
const (
	MsgUnauthorized     = "Unauthorized access"
	MsgForbidden        = "Access forbidden"
	MsgNotFound         = "Resource not found"
	MsgInvalidRequest   = "Invalid request format"
	MsgTooManyRequests  = "Too many requests"
	MsgInternalError    = "Internal server error"
	MsgServiceDown      = "Service temporarily unavailable"
	MsgAuthFailed       = "Authentication failed"
	MsgRegisterFailed   = "Registration failed"
	MsgVerifyCodeFailed = "Verification failed"
)
