package server

import (
	"sync"

	"github.com/spektr-org/homesight/dataset"
	"github.com/spektr-org/homesight/engine"
)

// ============================================================================
// STATE — Tagged dataset lifecycle shared across handlers
// ============================================================================
// The store is written by the load path and read by every request. The
// state is a tag, not an inference: loading until the first load settles,
// then ready or error. An errored store still holds an empty dataset, so
// views degrade to their no-data state instead of failing.
// ============================================================================

// DatasetState tags the lifecycle of the served dataset.
type DatasetState string

const (
	StateLoading DatasetState = "loading"
	StateReady   DatasetState = "ready"
	StateError   DatasetState = "error"
)

// Store holds the current dataset and its lifecycle tag.
type Store struct {
	mu      sync.RWMutex
	state   DatasetState
	ds      *dataset.Dataset
	message string
}

// NewStore returns a Store in the loading state over an empty dataset.
func NewStore(source string) *Store {
	return &Store{state: StateLoading, ds: dataset.Empty(source)}
}

// SetReady installs a successfully loaded dataset.
func (s *Store) SetReady(ds *dataset.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateReady
	s.ds = ds
	s.message = ""
}

// SetError records a failed load. The store keeps an empty dataset and the
// diagnostic message so the dashboard can surface what went wrong.
func (s *Store) SetError(source, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateError
	s.ds = dataset.Empty(source)
	s.message = message
}

// Snapshot returns the current tag, dataset and diagnostic message.
func (s *Store) Snapshot() (DatasetState, *dataset.Dataset, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.ds, s.message
}

// View returns an engine view over the current dataset.
func (s *Store) View() engine.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return engine.NewView(s.ds)
}
