package config

import "time"

type Session struct {
	v *values
}

var _ SessionConfig = Session{}

// GetIdleTimeout is the inactivity budget before a forced logout.
func (s Session) GetIdleTimeout() time.Duration {
	return s.v.IdleTimeout.Duration
}

// GetRenewInterval is the cadence of the claims-expiry check.
func (s Session) GetRenewInterval() time.Duration {
	return s.v.RenewInterval.Duration
}

// GetRenewHorizon is how close to expiry a credential must be before it is renewed.
func (s Session) GetRenewHorizon() time.Duration {
	return s.v.RenewHorizon.Duration
}
