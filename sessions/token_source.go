package sessions

import (
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	apperrors "github.com/aaron-cedillo/EbenConta-Project/internal/errors"
	"github.com/aaron-cedillo/EbenConta-Project/token"
)

type storeTokenSource struct {
	store Store
}

// TokenSource exposes the stored credential as an oauth2 bearer token. Every
// call reads the store again so a renewed credential is picked up at once.
func TokenSource(store Store) oauth2.TokenSource {
	return storeTokenSource{store: store}
}

func (s storeTokenSource) Token() (*oauth2.Token, error) {
	credential, ok, err := s.store.Get(FieldCredential)
	if err != nil {
		return nil, errors.Wrap(err, "[sessions.TokenSource]")
	}
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}

	tok := &oauth2.Token{AccessToken: credential, TokenType: "Bearer"}
	if claims, err := token.Decode(credential); err == nil {
		if exp, err := claims.ExpiresAt(); err == nil {
			tok.Expiry = exp
		}
	}
	return tok, nil
}
