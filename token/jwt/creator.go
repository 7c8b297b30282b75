package jwt

import (
	"fmt"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aaron-cedillo/EbenConta-Project/internal/config"
	"github.com/aaron-cedillo/EbenConta-Project/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Creator issues HS256 credentials shaped like the ones the ebenConta backend
// hands out at login and renewal.
type Creator struct {
	secret  []byte
	ttl     time.Duration
	retired *retiredSet
}

// Verified is what a valid credential proves.
type Verified struct {
	UserID    int
	ID        string // jti
	ExpiresAt time.Time
}

// NewCreator creates a new JWT creator
func NewCreator(cfg config.BackendConfig) *Creator {
	return &Creator{
		secret:  []byte(cfg.GetJWTSecret()),
		ttl:     cfg.GetTokenTTL(),
		retired: newRetiredSet(),
	}
}

// CreateAccessToken creates the bearer credential for a user
func (c *Creator) CreateAccessToken(user *users.User) (string, error) {
	return c.CreateAccessTokenWithTTL(user, c.ttl)
}

// CreateAccessTokenWithTTL is CreateAccessToken with an explicit lifetime.
func (c *Creator) CreateAccessTokenWithTTL(user *users.User, ttl time.Duration) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"sub":    strconv.Itoa(user.ID),
		"email":  user.Email,
		"nombre": user.Name,
		"role":   string(user.Role),
		"rol":    string(user.Role),
		"iat":    now.Unix(),
		"exp":    now.Add(ttl).Unix(),
		"jti":    uuid.New().String(),
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a credential and that it has not
// been retired by an earlier renewal.
func (c *Creator) Verify(rawToken string) (*Verified, error) {
	token, err := jwtlib.Parse(rawToken, func(t *jwtlib.Token) (any, error) {
		return c.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(NowTimeFunc),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("token missing sub claim: %w", err)
	}
	id, err := strconv.Atoi(sub)
	if err != nil {
		return nil, fmt.Errorf("token sub is not numeric: %w", err)
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("token missing exp claim: %w", err)
	}

	mapClaims, _ := token.Claims.(jwtlib.MapClaims)
	jti, _ := mapClaims["jti"].(string)
	if jti == "" {
		return nil, fmt.Errorf("token missing jti claim")
	}
	if c.retired.contains(jti) {
		return nil, fmt.Errorf("token %s was already renewed", jti)
	}

	return &Verified{UserID: id, ID: jti, ExpiresAt: exp.Time}, nil
}

// Retire marks a verified credential as exchanged. It returns false when the
// credential was already retired, so each credential renews at most once.
func (c *Creator) Retire(v *Verified) bool {
	return c.retired.add(v.ID, v.ExpiresAt, NowTimeFunc())
}
