package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/aaron-cedillo/EbenConta-Project/api"
	"github.com/aaron-cedillo/EbenConta-Project/internal/config"
	"github.com/aaron-cedillo/EbenConta-Project/internal/metrics"
	"github.com/aaron-cedillo/EbenConta-Project/sessions"
)

const maxErrorBody = 64 << 10

// LoginResult is what a successful login yields to the login form.
type LoginResult struct {
	Credential         string
	Role               api.Role
	DisplayName        string
	UserID             int
	RoleExpirationDate string // contador only
	Target             Route  // Landing surface for Role
}

// Client is the only component that talks to the backend about identity.
// It turns login and renew responses into Session Store writes.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      sessions.Store
	navigator  Navigator
	metrics    *metrics.Metrics
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for backend calls.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithNavigator sets where Logout sends the user.
func WithNavigator(navigator Navigator) ClientOption {
	return func(c *Client) {
		c.navigator = navigator
	}
}

// WithMetrics records login and renew outcomes.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates an Auth Client for the configured backend.
func NewClient(cfg config.EnvConfig, store sessions.Store, options ...ClientOption) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("[NewClient] config is required")
	}
	if store == nil {
		return nil, errors.New("[NewClient] store is required")
	}

	c := &Client{
		baseURL:    cfg.GetAPIBaseURL(),
		httpClient: &http.Client{Timeout: cfg.GetHTTPTimeout()},
		store:      store,
		navigator:  NavigatorFunc(func(Route) {}),
	}

	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Login exchanges an email and password for a session. On success every
// returned field is persisted and the landing route is derived from the role.
// Nothing is written when the call fails or the role is not recognised.
func (c *Client) Login(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	if err := ValidateLoginInput(identifier, secret); err != nil {
		c.count("login", "invalid")
		return nil, err
	}

	var resp api.LoginResponse
	if err := c.postJSON(ctx, c.httpClient, api.PathLogin, api.LoginRequest{Email: identifier, Password: secret}, &resp); err != nil {
		c.count("login", "error")
		log.Warn().Err(err).Msg("login failed")
		return nil, err
	}
	if resp.Token == "" {
		c.count("login", "error")
		return nil, fmt.Errorf("%w: login response carried no token", ErrNetworkOrServer)
	}

	target, err := TargetForRole(resp.Rol)
	if err != nil {
		c.count("login", "unrecognized_role")
		log.Warn().Str("role", string(resp.Rol)).Msg("login returned an unrecognized role")
		return nil, err
	}

	record := sessions.Record{
		Credential:  resp.Token,
		DisplayName: resp.Nombre,
		UserID:      resp.UsuarioID,
	}
	if resp.Rol == api.RoleContador {
		record.RoleExpirationDate = resp.ExpirationDate
	}
	// Start from an empty record so nothing from a previous session survives
	if err := c.store.Clear(); err != nil {
		c.count("login", "error")
		return nil, errors.Wrap(err, "[Client.Login] clear previous session")
	}
	if err := sessions.Save(c.store, record); err != nil {
		_ = c.store.Clear()
		c.count("login", "error")
		return nil, errors.Wrap(err, "[Client.Login] persist session")
	}

	c.count("login", "ok")
	log.Info().Int("user_id", record.UserID).Str("role", string(resp.Rol)).Msg("login succeeded")

	return &LoginResult{
		Credential:         record.Credential,
		Role:               resp.Rol,
		DisplayName:        record.DisplayName,
		UserID:             record.UserID,
		RoleExpirationDate: record.RoleExpirationDate,
		Target:             target,
	}, nil
}

// Renew exchanges current for a fresh credential and swaps it into the store.
// Only the session guard calls this. There is no retry here.
func (c *Client) Renew(ctx context.Context, current string) (string, error) {
	if current == "" {
		return "", ErrSessionNotFound
	}

	bearer := &http.Client{
		Timeout: c.httpClient.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: current, TokenType: "Bearer"}),
			Base:   c.httpClient.Transport,
		},
	}

	var resp api.RenewResponse
	if err := c.postJSON(ctx, bearer, api.PathRenewToken, struct{}{}, &resp); err != nil {
		c.count("renew", "error")
		return "", err
	}
	if resp.Token == "" {
		c.count("renew", "error")
		return "", fmt.Errorf("%w: renew response carried no token", ErrNetworkOrServer)
	}

	swapped, err := c.store.ReplaceCredential(current, resp.Token)
	if err != nil {
		c.count("renew", "error")
		return "", errors.Wrap(err, "[Client.Renew] replace credential")
	}
	if !swapped {
		c.count("renew", "superseded")
		return "", ErrSessionSuperseded
	}

	c.count("renew", "ok")
	log.Debug().Msg("credential renewed")
	return resp.Token, nil
}

// Logout clears the session and sends the user to the login surface. It is
// safe to call with no active session.
func (c *Client) Logout() {
	if err := c.store.Clear(); err != nil {
		log.Err(err).Msg("failed to clear session store")
	}
	c.navigator.Navigate(RouteLogin)
}

// HTTPClient returns a client that attaches the current credential as a
// bearer token to every request. The store is read per request, so views
// always send the most recently renewed credential.
func (c *Client) HTTPClient() *http.Client {
	return &http.Client{
		Timeout: c.httpClient.Timeout,
		Transport: &oauth2.Transport{
			Source: sessions.TokenSource(c.store),
			Base:   c.httpClient.Transport,
		},
	}
}

func (c *Client) postJSON(ctx context.Context, httpClient *http.Client, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(api.HeaderRequestID, requestID)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: POST %s: %w", ErrNetworkOrServer, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr api.ErrorResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = json.Unmarshal(raw, &apiErr)

		log.Debug().Str("request_id", requestID).Int("status", resp.StatusCode).Str("path", path).Msg("backend rejected request")

		if apiErr.Message == api.MessageAccountExpired {
			return fmt.Errorf("%w: %s", ErrAccountExpired, apiErr.Message)
		}
		return fmt.Errorf("%w: POST %s: status %d: %s", ErrNetworkOrServer, path, resp.StatusCode, apiErr.Message)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: POST %s: decode response: %w", ErrNetworkOrServer, path, err)
	}
	return nil
}

func (c *Client) count(operation, status string) {
	if c.metrics == nil {
		return
	}
	c.metrics.AuthCalls.WithLabelValues(operation, status).Inc()
}
