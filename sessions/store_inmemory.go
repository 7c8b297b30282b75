package sessions

import "sync"

var _ Store = (*InMemoryStore)(nil)

// InMemoryStore is a process local Store
type InMemoryStore struct {
	mu     sync.RWMutex
	values map[Field]string
}

// NewInMemoryStore creates an empty in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		values: make(map[Field]string),
	}
}

func (s *InMemoryStore) Get(field Field) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[field]
	return value, ok, nil
}

func (s *InMemoryStore) Set(field Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[field] = value
	return nil
}

func (s *InMemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = make(map[Field]string)
	return nil
}

func (s *InMemoryStore) ReplaceCredential(old, new string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.values[FieldCredential]
	if !ok || current != old {
		return false, nil
	}
	s.values[FieldCredential] = new
	return true, nil
}
