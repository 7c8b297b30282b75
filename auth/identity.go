package auth

import (
	"time"

	"github.com/pkg/errors"

	"github.com/aaron-cedillo/EbenConta-Project/api"
	"github.com/aaron-cedillo/EbenConta-Project/sessions"
	"github.com/aaron-cedillo/EbenConta-Project/token"
)

// Identity is the signed-in user as the views see it: the stored record plus
// what the credential claims about role and expiry.
type Identity struct {
	sessions.Record
	Role      api.Role
	ExpiresAt time.Time
}

// CurrentIdentity reads the session record and decodes its credential.
// It fails with ErrSessionNotFound when nobody is signed in and with
// ErrMalformedCredential when the stored credential cannot be decoded.
func CurrentIdentity(store sessions.Store) (*Identity, error) {
	record, err := sessions.Load(store)
	if err != nil {
		return nil, err
	}

	claims, err := token.Decode(record.Credential)
	if err != nil {
		return nil, errors.Wrap(err, "[auth.CurrentIdentity]")
	}
	exp, err := claims.ExpiresAt()
	if err != nil {
		return nil, errors.Wrap(err, "[auth.CurrentIdentity]")
	}

	return &Identity{
		Record:    *record,
		Role:      api.Role(claims.Role()),
		ExpiresAt: exp,
	}, nil
}
