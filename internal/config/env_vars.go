package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	apiBaseURLEnvVar    = "API_BASE_URL"
	envEnvVar           = "ENV"
	logLevelEnvVar      = "LOG_LEVEL"
	httpTimeoutEnvVar   = "HTTP_TIMEOUT"
	metricsAddrEnvVar   = "METRICS_ADDR"
	idleTimeoutEnvVar   = "IDLE_TIMEOUT"
	renewIntervalEnvVar = "RENEW_INTERVAL"
	renewHorizonEnvVar  = "RENEW_HORIZON"
	storeBackendEnvVar  = "STORE_BACKEND"
	storePathEnvVar     = "STORE_PATH"
	storeProfileEnvVar  = "STORE_PROFILE"
	portEnvVar          = "PORT"
	jwtSecretEnvVar     = "JWT_SECRET"
	tokenTTLEnvVar      = "TOKEN_TTL"
)

type EnvVars struct {
	v *values
}

var _ EnvConfig = EnvVars{}

// GetAPIBaseURL returns the backend origin without a trailing slash. All REST
// calls target <origin>/api/...
func (e EnvVars) GetAPIBaseURL() string {
	return strings.TrimRight(e.v.APIBaseURL, "/")
}

func (e EnvVars) GetEnv() string {
	return e.v.Env
}

func (e EnvVars) GetLogLevel() string {
	return e.v.LogLevel
}

func (e EnvVars) GetHTTPTimeout() time.Duration {
	return e.v.HTTPTimeout.Duration
}

func (e EnvVars) GetMetricsAddr() string {
	return e.v.MetricsAddr
}

func (v *values) applyEnv() error {
	v.APIBaseURL = GetEnv(apiBaseURLEnvVar, v.APIBaseURL)
	v.Env = GetEnv(envEnvVar, v.Env)
	v.LogLevel = GetEnv(logLevelEnvVar, v.LogLevel)
	v.MetricsAddr = GetEnv(metricsAddrEnvVar, v.MetricsAddr)
	v.StoreBackend = GetEnv(storeBackendEnvVar, v.StoreBackend)
	v.StorePath = GetEnv(storePathEnvVar, v.StorePath)
	v.StoreProfile = GetEnv(storeProfileEnvVar, v.StoreProfile)
	v.Port = GetEnv(portEnvVar, v.Port)
	v.JWTSecret = GetEnv(jwtSecretEnvVar, v.JWTSecret)

	durations := []struct {
		envVar string
		target *duration
	}{
		{httpTimeoutEnvVar, &v.HTTPTimeout},
		{idleTimeoutEnvVar, &v.IdleTimeout},
		{renewIntervalEnvVar, &v.RenewInterval},
		{renewHorizonEnvVar, &v.RenewHorizon},
		{tokenTTLEnvVar, &v.TokenTTL},
	}
	for _, d := range durations {
		raw := os.Getenv(d.envVar)
		if raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.envVar, err)
		}
		d.target.Duration = parsed
	}
	return nil
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
