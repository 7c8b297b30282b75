package token

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	jwtlib "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/aaron-cedillo/EbenConta-Project/internal/errors"
)

// ErrMalformedCredential is returned for any credential that cannot be decoded.
var ErrMalformedCredential = apperrors.ErrMalformedCredential

// Claims is the decoded payload of a credential. Numbers are kept as
// json.Number so integer claims survive exactly.
type Claims map[string]any

// segmentDecoder decodes base64url segments with or without padding.
var segmentDecoder = jwtlib.NewParser(jwtlib.WithPaddingAllowed())

// Decode reads the claims carried by a credential.
//
// The signature is never checked: the backend is the only verifier, this only
// exposes what the credential claims so the UI can read exp and role without
// a round trip.
func Decode(credential string) (Claims, error) {
	segments := strings.Split(credential, ".")
	if len(segments) != 3 {
		return nil, apperrors.Wrapf(ErrMalformedCredential, "expected 3 segments, got %d", len(segments))
	}

	payload := strings.NewReplacer("+", "-", "/", "_").Replace(segments[1])
	raw, err := segmentDecoder.DecodeSegment(payload)
	if err != nil {
		return nil, apperrors.Wrapf(ErrMalformedCredential, "payload is not base64url: %v", err)
	}

	if !utf8.Valid(raw) {
		return nil, apperrors.Wrapf(ErrMalformedCredential, "payload is not valid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var claims Claims
	if err := dec.Decode(&claims); err != nil {
		return nil, apperrors.Wrapf(ErrMalformedCredential, "payload is not a JSON object: %v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, apperrors.Wrapf(ErrMalformedCredential, "trailing data after payload")
	}
	if claims == nil {
		return nil, apperrors.Wrapf(ErrMalformedCredential, "payload is null")
	}
	return claims, nil
}

// ExpiresAt returns the exp claim. A missing or non-numeric exp is treated as
// a malformed credential.
func (c Claims) ExpiresAt() (time.Time, error) {
	exp, err := jwtlib.MapClaims(c).GetExpirationTime()
	if err != nil {
		return time.Time{}, apperrors.Wrapf(ErrMalformedCredential, "exp: %v", err)
	}
	if exp == nil {
		return time.Time{}, apperrors.Wrapf(ErrMalformedCredential, "exp claim missing")
	}
	return exp.Time, nil
}

// Remaining is the time left before exp, negative once expired.
func (c Claims) Remaining(now time.Time) (time.Duration, error) {
	exp, err := c.ExpiresAt()
	if err != nil {
		return 0, err
	}
	return exp.Sub(now), nil
}

// Role returns the role claim. The backend has used both "role" and "rol".
func (c Claims) Role() string {
	if role, ok := c["role"].(string); ok && role != "" {
		return role
	}
	role, _ := c["rol"].(string)
	return role
}

// Subject returns the sub claim, if any.
func (c Claims) Subject() string {
	sub, _ := jwtlib.MapClaims(c).GetSubject()
	return sub
}
