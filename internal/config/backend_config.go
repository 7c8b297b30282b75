package config

import (
	"fmt"
	"strings"
	"time"
)

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

var allowedOrigins = AllowedOrigins{"http://localhost:3000": nullValue{}}

// Backend configures the development backend stub.
type Backend struct {
	v *values
}

var _ BackendConfig = Backend{}

func (b Backend) GetPort() string {
	port := b.v.Port
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (b Backend) GetJWTSecret() string {
	return b.v.JWTSecret
}

func (b Backend) GetTokenTTL() time.Duration {
	return b.v.TokenTTL.Duration
}

func (Backend) GetAllowedOrigins() AllowedOrigins {
	return allowedOrigins
}

func (Backend) GetAllowedMethods() string {
	return "GET, POST, PUT, DELETE"
}

func (Backend) GetAllowedHeaders() string {
	return "Content-Type, Authorization"
}
