package config

import (
	"time"

	"github.com/BurntSushi/toml"
)

// duration lets TOML files spell durations as "60m" or "15s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type values struct {
	APIBaseURL  string   `toml:"api_base_url"`
	Env         string   `toml:"env"`
	LogLevel    string   `toml:"log_level"`
	HTTPTimeout duration `toml:"http_timeout"`
	MetricsAddr string   `toml:"metrics_addr"`

	IdleTimeout   duration `toml:"idle_timeout"`
	RenewInterval duration `toml:"renew_interval"`
	RenewHorizon  duration `toml:"renew_horizon"`

	StoreBackend string `toml:"store_backend"`
	StorePath    string `toml:"store_path"`
	StoreProfile string `toml:"store_profile"`

	Port      string   `toml:"port"`
	JWTSecret string   `toml:"jwt_secret"`
	TokenTTL  duration `toml:"token_ttl"`
}

func defaults() *values {
	return &values{
		APIBaseURL:  "http://localhost:3001",
		Env:         "DEV",
		LogLevel:    "info",
		HTTPTimeout: duration{15 * time.Second},

		IdleTimeout:   duration{60 * time.Minute},
		RenewInterval: duration{55 * time.Minute},
		RenewHorizon:  duration{5 * time.Minute},

		StoreBackend: StoreBackendMemory,
		StorePath:    "./data/session.db",
		StoreProfile: "default",

		Port:      "3001",
		JWTSecret: "dev-secret",
		TokenTTL:  duration{60 * time.Minute},
	}
}

func (v *values) readFile(path string) error {
	_, err := toml.DecodeFile(path, v)
	return err
}
