package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	apperrors "github.com/aaron-cedillo/EbenConta-Project/internal/errors"
)

const configFileEnvVar = "EBENCONTA_CONFIG"

type Config interface {
	EnvConfig
	SessionConfig
	StoreConfig
	BackendConfig
}

type EnvConfig interface {
	GetAPIBaseURL() string
	GetEnv() string
	GetLogLevel() string
	GetHTTPTimeout() time.Duration
	GetMetricsAddr() string
}

type SessionConfig interface {
	GetIdleTimeout() time.Duration
	GetRenewInterval() time.Duration
	GetRenewHorizon() time.Duration
}

type StoreConfig interface {
	GetStoreBackend() string
	GetStorePath() string
	GetStoreProfile() string
}

type BackendConfig interface {
	CorsConfig
	GetPort() string
	GetJWTSecret() string
	GetTokenTTL() time.Duration
}

type mainConfig struct {
	EnvVars
	Session
	Store
	Backend
}

var _ Config = mainConfig{}

// New loads the configuration from defaults, the optional TOML file named by
// EBENCONTA_CONFIG, a .env file and finally the process environment.
func New() (Config, error) {
	return Load(GetEnv(configFileEnvVar, ""))
}

// Load is New with an explicit config file path. An empty path skips the file.
func Load(path string) (Config, error) {
	v := defaults()

	if path != "" {
		if err := v.readFile(path); err != nil {
			return nil, errors.Wrap(err, "[config.Load] readFile")
		}
	}

	_ = godotenv.Load()

	if err := v.applyEnv(); err != nil {
		return nil, errors.Wrap(err, "[config.Load] applyEnv")
	}
	if err := v.validate(); err != nil {
		return nil, err
	}
	return fromValues(v), nil
}

// Defaults returns the built-in configuration without consulting the file
// system or the environment.
func Defaults() Config {
	return fromValues(defaults())
}

func fromValues(v *values) Config {
	return mainConfig{
		EnvVars: EnvVars{v: v},
		Session: Session{v: v},
		Store:   Store{v: v},
		Backend: Backend{v: v},
	}
}

func (v *values) validate() error {
	if v.APIBaseURL == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "api_base_url is required")
	}
	if v.IdleTimeout.Duration <= 0 || v.RenewInterval.Duration <= 0 || v.RenewHorizon.Duration < 0 {
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "session durations must be positive")
	}
	switch v.StoreBackend {
	case StoreBackendMemory, StoreBackendSQLite:
	default:
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "unknown store backend %q", v.StoreBackend)
	}
	return nil
}
