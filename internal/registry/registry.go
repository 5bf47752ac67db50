package registry

import (
	"fmt"
	"sync"

	"github.com/XavierBriggs/oddsboard/pkg/contracts"
)

// SinkRegistry manages the sinks a board renders to
type SinkRegistry struct {
	sinks map[string]contracts.Sink
	order []string
	mu    sync.RWMutex
}

// NewSinkRegistry creates a new sink registry
func NewSinkRegistry() *SinkRegistry {
	return &SinkRegistry{
		sinks: make(map[string]contracts.Sink),
	}
}

// Register adds a sink to the registry
func (r *SinkRegistry) Register(sink contracts.Sink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := sink.Name()
	if _, exists := r.sinks[name]; exists {
		return fmt.Errorf("sink %s is already registered", name)
	}

	r.sinks[name] = sink
	r.order = append(r.order, name)
	return nil
}

// Get retrieves a sink by name
func (r *SinkRegistry) Get(name string) (contracts.Sink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sink, exists := r.sinks[name]
	return sink, exists
}

// GetAll returns all registered sinks in registration order
func (r *SinkRegistry) GetAll() []contracts.Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sinks := make([]contracts.Sink, 0, len(r.order))
	for _, name := range r.order {
		sinks = append(sinks, r.sinks[name])
	}
	return sinks
}

// Count returns the number of registered sinks
func (r *SinkRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sinks)
}
