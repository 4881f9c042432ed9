package utils

// AuthCachePrefix is the prefix used for Redis session cache keys.
const AuthCachePrefix = "auth:"

// SessionContextKey is the gin context key holding the caller's session.
const SessionContextKey = "session"

// LoggerContextKey is the gin context key holding the request-scoped logger.
const LoggerContextKey = "logger"
