package auth

import "strings"

// ValidateLoginInput rejects a login attempt before any network call when
// either value is empty.
func ValidateLoginInput(identifier, secret string) error {
	if strings.TrimSpace(identifier) == "" || secret == "" {
		return ErrMissingCredentials
	}
	return nil
}
