package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aaron-cedillo/EbenConta-Project/api"
)

// User is an account known to the development backend.
type User struct {
	ID           int      `json:"id"`               // Numeric user id (usuarioID on the wire)
	Email        string   `json:"email"`            // Login identifier
	Name         string   `json:"nombre"`           // Display name
	Role         api.Role `json:"rol"`              // admin or contador
	PasswordHash string   `json:"-"`                // bcrypt hash - never serialize
	Blocked      bool     `json:"blocked,omitempty"` // Blocked users cannot log in or renew

	// AccessExpiresAt ends a contador's business-level access window.
	// Nil means no window applies.
	AccessExpiresAt *time.Time `json:"expirationDate,omitempty"`
}

// AccessExpired reports whether the user's access window has elapsed at now.
func (u *User) AccessExpired(now time.Time) bool {
	return u.AccessExpiresAt != nil && !now.Before(*u.AccessExpiresAt)
}

// ExpirationDate formats the access window end as an ISO date, or "" when
// there is none.
func (u *User) ExpirationDate() string {
	if u.AccessExpiresAt == nil {
		return ""
	}
	return u.AccessExpiresAt.Format(time.DateOnly)
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
