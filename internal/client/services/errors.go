package services

import "errors"

// Error kinds returned by AuthService. Match them with errors.Is; the
// underlying gateway error stays in the chain.
var (
	// ErrInvalidInput is client-correctable (malformed email, short password).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials means the gateway rejected email/password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateAccount means the email is already registered. On a retried
	// sign-up it most likely means the first attempt succeeded.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrNotAuthenticated is a programming error: an operation needing a
	// session was called without one.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrGateway is a transient gateway failure; the operation can be retried.
	ErrGateway = errors.New("gateway error")
)
