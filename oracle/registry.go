package oracle

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages named oracle configurations with lazy instantiation.
// Configs are stored at registration time; oracles are created on first
// Get call. Thread-safe for concurrent access.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]Config
	oracles map[string]Oracle
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		configs: make(map[string]Config),
		oracles: make(map[string]Oracle),
	}
}

// Register adds a named oracle configuration to the registry.
// The oracle is not instantiated until Get is called.
func (r *Registry) Register(name string, cfg Config) error {
	if name == "" {
		return ErrEmptyOracleName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[name]; exists {
		return fmt.Errorf("%w: %s", ErrOracleExists, name)
	}

	r.configs[name] = cfg
	return nil
}

// Get retrieves a named oracle, instantiating it lazily on first access.
func (r *Registry) Get(name string) (Oracle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, registered := r.configs[name]; !registered {
		return nil, fmt.Errorf("%w: %s", ErrOracleNotFound, name)
	}

	if o, exists := r.oracles[name]; exists {
		return o, nil
	}

	cfg := r.configs[name]
	o, err := New(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create oracle %q: %w", name, err)
	}

	r.oracles[name] = o
	return o, nil
}

// Replace updates the configuration for an existing named oracle.
// Any cached instance is invalidated; the next Get re-instantiates.
func (r *Registry) Replace(name string, cfg Config) error {
	if name == "" {
		return ErrEmptyOracleName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[name]; !exists {
		return fmt.Errorf("%w: %s", ErrOracleNotFound, name)
	}

	r.configs[name] = cfg
	delete(r.oracles, name)
	return nil
}

// Unregister removes a named oracle from the registry.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[name]; !exists {
		return fmt.Errorf("%w: %s", ErrOracleNotFound, name)
	}

	delete(r.configs, name)
	delete(r.oracles, name)
	return nil
}

// List returns the registered oracle names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
