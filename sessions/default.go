package sessions

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/aaron-cedillo/EbenConta-Project/internal/config"
)

var (
	defaultMu    sync.Mutex
	defaultStore Store
)

// Default returns the process-wide store, creating an in-memory one on first
// use. It is safe to call before anything else has been set up; lookups on a
// fresh store simply report every field as absent.
func Default() Store {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultStore == nil {
		defaultStore = NewInMemoryStore()
	}
	return defaultStore
}

// SetDefault replaces the process-wide store. Passing nil resets it so the
// next Default call starts from an empty in-memory store.
func SetDefault(store Store) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultStore = store
}

// Open builds the store selected by configuration.
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.GetStoreBackend() {
	case config.StoreBackendMemory:
		return NewInMemoryStore(), nil
	case config.StoreBackendSQLite:
		return NewSQLiteStore(cfg.GetStorePath(), cfg.GetStoreProfile())
	default:
		return nil, errors.Errorf("[sessions.Open] unknown store backend %q", cfg.GetStoreBackend())
	}
}
