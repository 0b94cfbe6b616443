package auth

import "errors"

var (
	// ErrNoSuchUser and ErrInvalidCredentials are told apart for logging only;
	// callers outside this package see them as one credential failure.
	ErrNoSuchUser         = errors.New("no user with this email")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInfrastructureUnavailable = errors.New("credential store unavailable")
	ErrPasswordTooLong           = errors.New("password exceeds 72 bytes")
)

// CredentialFailureMessage is the only text a client sees for a failed login.
const CredentialFailureMessage = "invalid email or password"

func IsCredentialFailure(err error) bool {
	return errors.Is(err, ErrNoSuchUser) || errors.Is(err, ErrInvalidCredentials)
}
