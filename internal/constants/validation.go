package constants

// Field Length Limits
const (
	MinPasswordLength = 8
	MinNameLength     = 2
)

// Verification Code Settings
const (
	CodeLength = 6
)
