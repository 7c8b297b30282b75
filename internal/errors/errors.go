package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the session core
var (
	// Login validation
	ErrMissingCredentials = errors.New("missing credentials")

	// Credential errors
	ErrMalformedCredential = errors.New("malformed credential")

	// Backend reported errors
	ErrAccountExpired   = errors.New("account access window has elapsed")
	ErrUnrecognizedRole = errors.New("unrecognized role")
	ErrNetworkOrServer  = errors.New("network or server error")

	// Session errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionSuperseded = errors.New("session credential superseded")

	// General errors
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
