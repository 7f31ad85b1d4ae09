package agent

import (
	"sync"

	"github.com/fmuoria/ai-recruiter/internal/models"
)

// ResultStore holds the ranked candidates of the current or last run. Readers
// may observe a run in progress but never a half-written entry.
type ResultStore struct {
	mu      sync.RWMutex
	results []models.RankedCandidate
}

// NewResultStore creates an empty store.
func NewResultStore() *ResultStore {
	return &ResultStore{results: []models.RankedCandidate{}}
}

// Reset discards every stored result.
func (s *ResultStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = []models.RankedCandidate{}
}

// Append adds one result.
func (s *ResultStore) Append(result models.RankedCandidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
}

// Snapshot returns a copy of the results in processing order. It is never nil.
func (s *ResultStore) Snapshot() []models.RankedCandidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resultsCopy := make([]models.RankedCandidate, len(s.results))
	copy(resultsCopy, s.results)
	return resultsCopy
}
