package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Authentication Errors
	ErrTokenInvalid   = errors.New("access token rejected by the broker")
	ErrAuthFlowFailed = errors.New("interactive login flow failed")

	// Broker Specific Errors
	ErrConnectionFailed     = errors.New("failed to connect to the broker")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrOrderNotFound        = errors.New("order not found at the broker")
	ErrOrderPlacementFailed = errors.New("failed to place order")
	ErrOrderCancelFailed    = errors.New("failed to cancel order")
	ErrCancelIncomplete     = errors.New("pending orders remain after cancel retries")

	// Order Synthesis Errors
	ErrInvalidIntent = errors.New("malformed trade intent")
	ErrMissingPrice  = errors.New("no last traded price available for symbol")

	// Persistence Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
	ErrTokenStore   = errors.New("token store access failed")
)
