package jwt

import (
	"sync"
	"time"
)

// retiredSet holds the ids of credentials already exchanged at renewal. An
// entry is dropped once its credential would have expired anyway.
type retiredSet struct {
	mu   sync.Mutex
	byID map[string]time.Time
}

func newRetiredSet() *retiredSet {
	return &retiredSet{byID: make(map[string]time.Time)}
}

// add records id until exp and reports whether it was new.
func (s *retiredSet) add(id string, exp, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for jti, until := range s.byID {
		if now.After(until) {
			delete(s.byID, jti)
		}
	}
	if _, ok := s.byID[id]; ok {
		return false
	}
	s.byID[id] = exp
	return true
}

func (s *retiredSet) contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.byID[id]
	return ok
}
