package ports

import "errors"

// Standard application-level errors.
// Adapters wrap underlying infrastructure errors with these so callers can match on errors.Is.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")
	ErrStoreClosed        = errors.New("trade store is closed")

	// Journal Errors
	ErrDuplicateEntry = errors.New("trade id already exists")
	ErrInvalidRisk    = errors.New("risk must be greater than zero")
	ErrUnknownPair    = errors.New("pair symbol not in registry")

	// Database Specific Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
	ErrUpdateFailed = errors.New("database update failed")

	// Remote Replica Errors
	ErrSyncFailed       = errors.New("remote sync failed")
	ErrConnectionFailed = errors.New("failed to connect to remote service")

	// Price Lookup Errors
	ErrPriceUnavailable     = errors.New("latest price unavailable")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrAuthenticationFailed = errors.New("API authentication failed (check API keys)")
)
