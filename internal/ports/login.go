package ports

import "context"

// TokenSource exchanges login credentials for a short-lived request token.
// The scripted browser flow lives behind this interface so the fragile
// page-structure dependency does not leak into session logic.
type TokenSource interface {
	// RequestToken opens the broker login page, completes the two-step form
	// and returns the request token found on the redirect URL. Failure to
	// locate an expected page element within the bounded wait is fatal.
	RequestToken(ctx context.Context, loginURL string) (string, error)
}

// TokenStore persists the broker access token between process runs.
// Read once at startup, overwritten at most once per login. There is no
// locking; concurrent processes sharing a store are not supported.
type TokenStore interface {
	// Load returns the persisted token, or an empty string if none exists.
	Load() (string, error)
	// Save overwrites the persisted token.
	Save(token string) error
}
