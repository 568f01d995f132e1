package identity

import (
	"errors"

	"github.com/angkasa-id/angkasa/internal/auth"
)

// MessageFor maps a lifecycle error to the notice shown to the visitor.
// Anything unrecognized gets the generic message; the real error stays in
// the logs.
func MessageFor(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Email or password is incorrect."
	case errors.Is(err, auth.ErrEmailTaken):
		return "That email is already registered. Try signing in instead."
	case errors.Is(err, auth.ErrWeakPassword):
		return "Password must be at least 8 characters."
	case errors.Is(err, auth.ErrRegistrationClosed):
		return "Registration is currently closed."
	case errors.Is(err, auth.ErrProviderNotAvailable):
		return "That sign-in method is not available."
	case errors.Is(err, ErrCooldownActive):
		return "Please wait a moment before requesting another email."
	case errors.Is(err, ErrAlreadyVerified):
		return "Your email is already verified."
	case errors.Is(err, ErrInvalidToken):
		return "That verification link is invalid or has expired."
	default:
		return "Something went wrong. Please try again."
	}
}
