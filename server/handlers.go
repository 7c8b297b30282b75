package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/aaron-cedillo/EbenConta-Project/api"
	"github.com/aaron-cedillo/EbenConta-Project/users"
)

const (
	messageInvalidCredentials = "Credenciales inválidas"
	messageInvalidRequest     = "Solicitud inválida"
	messageInvalidToken       = "Token inválido o expirado"
	messageServerError        = "Error interno del servidor"
)

// LoginHandler authenticates an email and password and returns the
// credential together with the profile fields the client persists.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, messageInvalidRequest)
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, messageInvalidRequest)
			return
		}

		user, err := s.users.GetByEmail(req.Email)
		if err != nil || user == nil || !users.CheckPasswordHash(req.Password, user.PasswordHash) {
			writeError(w, http.StatusUnauthorized, messageInvalidCredentials)
			return
		}
		if user.Blocked {
			writeError(w, http.StatusUnauthorized, messageInvalidCredentials)
			return
		}
		if user.Role == api.RoleContador && user.AccessExpired(s.nowFunc()) {
			writeError(w, http.StatusForbidden, api.MessageAccountExpired)
			return
		}

		accessToken, err := s.creator.CreateAccessToken(user)
		if err != nil {
			log.Err(err).Int("user_id", user.ID).Msg("failed to create access token")
			writeError(w, http.StatusInternalServerError, messageServerError)
			return
		}

		resp := api.LoginResponse{
			Token:     accessToken,
			Rol:       user.Role,
			Nombre:    user.Name,
			UsuarioID: user.ID,
		}
		if user.Role == api.RoleContador {
			resp.ExpirationDate = user.ExpirationDate()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// RenewTokenHandler exchanges a valid bearer credential for a fresh one
// issued to the same user.
func (s *Server) RenewTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bearer, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, messageInvalidToken)
			return
		}

		verified, err := s.creator.Verify(bearer)
		if err != nil {
			writeError(w, http.StatusUnauthorized, messageInvalidToken)
			return
		}

		user, err := s.users.GetByID(verified.UserID)
		if err != nil || user == nil || user.Blocked {
			writeError(w, http.StatusUnauthorized, messageInvalidToken)
			return
		}
		if user.Role == api.RoleContador && user.AccessExpired(s.nowFunc()) {
			writeError(w, http.StatusForbidden, api.MessageAccountExpired)
			return
		}

		// Two concurrent renewals of one credential: only the first wins
		if !s.creator.Retire(verified) {
			writeError(w, http.StatusUnauthorized, messageInvalidToken)
			return
		}

		accessToken, err := s.creator.CreateAccessToken(user)
		if err != nil {
			log.Err(err).Int("user_id", user.ID).Msg("failed to renew access token")
			writeError(w, http.StatusInternalServerError, messageServerError)
			return
		}
		writeJSON(w, http.StatusOK, api.RenewResponse{Token: accessToken})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	scheme, value, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(value) == "" {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, api.ErrorResponse{Message: message})
}
