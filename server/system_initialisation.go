package server

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aaron-cedillo/EbenConta-Project/api"
	"github.com/aaron-cedillo/EbenConta-Project/internal/utils"
	"github.com/aaron-cedillo/EbenConta-Project/users"
)

const (
	DefaultAdminEmail    = "admin@ebenconta.local"
	DefaultContadorEmail = "contador@ebenconta.local"
)

// SeedUser describes an account to create at start-up. An empty Password
// is replaced by a generated one.
type SeedUser struct {
	Email           string
	Name            string
	Role            api.Role
	Password        string
	AccessExpiresAt *time.Time
}

// DefaultSeedUsers returns one admin and one contador whose access window
// ends accessWindow after now.
func DefaultSeedUsers(now time.Time, accessWindow time.Duration) []SeedUser {
	return []SeedUser{
		{Email: DefaultAdminEmail, Name: "Administrador", Role: api.RoleAdmin},
		{Email: DefaultContadorEmail, Name: "Contador", Role: api.RoleContador, AccessExpiresAt: utils.Ptr(now.Add(accessWindow).Truncate(24 * time.Hour))},
	}
}

// InitialiseUsers creates every seed user that does not already exist and
// returns the passwords it generated, keyed by email.
func InitialiseUsers(repo users.UserRepo, seeds []SeedUser) (map[string]string, error) {
	generated := make(map[string]string)

	for _, seed := range seeds {
		if existing, err := repo.GetByEmail(seed.Email); err == nil && existing != nil {
			continue
		}
		if !seed.Role.Known() {
			return nil, fmt.Errorf("[Server InitialiseUsers] %s: unknown role %q", seed.Email, seed.Role)
		}

		password := seed.Password
		if password == "" {
			password = generatePassword()
			generated[seed.Email] = password
		}
		hash, err := users.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("[Server InitialiseUsers] failed to hash password: %w", err)
		}

		user := &users.User{
			Email:           seed.Email,
			Name:            seed.Name,
			Role:            seed.Role,
			PasswordHash:    hash,
			AccessExpiresAt: seed.AccessExpiresAt,
		}
		if err := repo.Upsert(user); err != nil {
			return nil, fmt.Errorf("[Server InitialiseUsers] failed to create %s: %w", seed.Email, err)
		}
		log.Info().Int("user_id", user.ID).Str("email", user.Email).Str("role", string(user.Role)).Msg("seeded user")
	}
	return generated, nil
}

func generatePassword() string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
