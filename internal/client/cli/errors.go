package cli

import (
	"errors"

	"github.com/dmitrijs2005/campuslink/internal/client/services"
)

var (
	ErrUnknownScreen   = errors.New("unknown screen")
	ErrAlreadySignedIn = errors.New("already signed in")
)

// describeError turns a command error into the line shown to the user.
func describeError(err error) string {
	switch {
	case errors.Is(err, services.ErrDuplicateAccount):
		return "An account with this email already exists. Sign in instead."
	case errors.Is(err, services.ErrInvalidCredentials):
		return "Incorrect email or password."
	case errors.Is(err, services.ErrInvalidInput):
		return "Invalid input: " + err.Error()
	case errors.Is(err, services.ErrNotAuthenticated):
		return "You are not signed in."
	case errors.Is(err, services.ErrGateway):
		return "The service is unavailable, try again later."
	case errors.Is(err, ErrUnknownScreen):
		return err.Error() + " (use sign-in, sign-up, user-info or home)"
	case errors.Is(err, ErrAlreadySignedIn):
		return "Already signed in. Sign out first."
	default:
		return "Error: " + err.Error()
	}
}
