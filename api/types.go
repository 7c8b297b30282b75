package api

// Role is the account role reported by the backend at login.
type Role string

const (
	// RoleAdmin manages accountants and the whole client portfolio.
	RoleAdmin Role = "admin"

	// RoleContador is the accountant role.
	// Contador accounts carry a business-level access window (expirationDate)
	// that is independent of the credential's own exp claim.
	RoleContador Role = "contador"
)

// Known reports whether the role belongs to the closed set the client accepts.
func (r Role) Known() bool {
	return r == RoleAdmin || r == RoleContador
}

// REST paths relative to the configured API base URL.
const (
	PathLogin       = "/api/users/login"
	PathRenewToken  = "/api/users/renew-token"
	HeaderRequestID = "X-Request-ID"
)

// MessageAccountExpired is the exact message the backend returns when a
// contador's access window has elapsed.
const MessageAccountExpired = "El acceso de este contador ha expirado"

// LoginRequest is the body of POST /api/users/login.
type LoginRequest struct {
	// Email identifies the account.
	// Example: "a@b.com"
	Email string `json:"email"`

	// Password is the plain secret, only ever sent over the login call.
	Password string `json:"password"`
}

// LoginResponse is the 2xx body of POST /api/users/login.
type LoginResponse struct {
	// Token is the bearer credential.
	// Example: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."
	// Usage: Authorization: Bearer <token>
	Token string `json:"token"`

	// Rol is the account role, "admin" or "contador".
	Rol Role `json:"rol"`

	// Nombre is the display name shown in dashboard headers.
	Nombre string `json:"nombre"`

	// UsuarioID is the numeric user id.
	UsuarioID int `json:"usuarioID"`

	// ExpirationDate is the contador access window end (ISO date).
	// Only present: when Rol is "contador"
	// Example: "2025-01-01"
	ExpirationDate string `json:"expirationDate,omitempty"`
}

// RenewResponse is the 2xx body of POST /api/users/renew-token.
type RenewResponse struct {
	Token string `json:"token"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
}
