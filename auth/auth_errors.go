package auth

import (
	apperrors "github.com/aaron-cedillo/EbenConta-Project/internal/errors"
)

var (
	ErrMissingCredentials = apperrors.ErrMissingCredentials
	ErrAccountExpired     = apperrors.ErrAccountExpired
	ErrUnrecognizedRole   = apperrors.ErrUnrecognizedRole
	ErrNetworkOrServer    = apperrors.ErrNetworkOrServer
	ErrSessionNotFound    = apperrors.ErrSessionNotFound
	ErrSessionSuperseded  = apperrors.ErrSessionSuperseded
)

// User facing messages. Only an elapsed contador access window gets its own
// wording; everything else on the login path is a generic retry prompt.
const (
	MessageMissingCredentials = "Por favor ingresa un correo y una contraseña"
	MessageAccountExpired     = "El acceso de este contador ha expirado. Por favor, contacta al administrador."
	MessageUnrecognizedRole   = "Rol no reconocido"
	MessageLoginFailed        = "Error al iniciar sesión, por favor intenta nuevamente."
)

// UserMessage maps a Login error to the text shown next to the login form.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case apperrors.Is(err, ErrMissingCredentials):
		return MessageMissingCredentials
	case apperrors.Is(err, ErrAccountExpired):
		return MessageAccountExpired
	case apperrors.Is(err, ErrUnrecognizedRole):
		return MessageUnrecognizedRole
	default:
		return MessageLoginFailed
	}
}
