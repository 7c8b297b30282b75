package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aaron-cedillo/EbenConta-Project/internal/config"
	"github.com/aaron-cedillo/EbenConta-Project/internal/metrics"
	"github.com/aaron-cedillo/EbenConta-Project/token/jwt"
	"github.com/aaron-cedillo/EbenConta-Project/users"
)

// Server is a local stand-in for the ebenConta backend. It serves only the
// identity endpoints the session core talks to.
type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	mux     *http.ServeMux
	routes  []string
	config  config.BackendConfig
	users   users.UserRepo
	creator *jwt.Creator
	metrics *metrics.Metrics
	nowFunc func() time.Time
}

// Option defines a function type to modify the Server instance.
type Option func(*Server)

// WithNowTime sets the clock used for access window checks.
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Server) {
		s.nowFunc = nowFunc
	}
}

// WithMetrics exposes the registry on GET /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithEnv sets the environment name. DEV enables request logging.
func WithEnv(env string) Option {
	return func(s *Server) {
		s.env = env
	}
}

func New(cfg config.BackendConfig, usersRepo users.UserRepo, options ...Option) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("[Server New] config is required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("[Server New] users repo is required")
	}
	if cfg.GetJWTSecret() == "" {
		return nil, fmt.Errorf("[Server New] jwt secret is required")
	}

	s := &Server{
		mux:     http.NewServeMux(),
		config:  cfg,
		users:   usersRepo,
		creator: jwt.NewCreator(cfg),
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes lists the registered patterns in registration order.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	displayMethod := Gray + paddedMethod + ResetColor
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	}
	log.Debug().Msgf("[%-19s] %s", displayMethod, path)
}
