package config

const (
	StoreBackendMemory = "memory"
	StoreBackendSQLite = "sqlite"
)

type Store struct {
	v *values
}

var _ StoreConfig = Store{}

func (s Store) GetStoreBackend() string {
	return s.v.StoreBackend
}

func (s Store) GetStorePath() string {
	return s.v.StorePath
}

// GetStoreProfile names the isolated session slot, the equivalent of one browser tab profile.
func (s Store) GetStoreProfile() string {
	return s.v.StoreProfile
}
