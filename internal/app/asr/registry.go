package asr

import (
	"fmt"
	"sync"
)

// Registry holds named Recognizer implementations. It is populated during
// wiring and read-only afterwards, so lookups are safe from request
// goroutines.
type Registry struct {
	mu          sync.RWMutex
	recognizers map[string]Recognizer
	default_    string
}

// NewRegistry creates an empty recognizer registry.
func NewRegistry() *Registry {
	return &Registry{
		recognizers: make(map[string]Recognizer),
	}
}

// Register adds a recognizer under a name. The first registration becomes
// the default.
func (r *Registry) Register(name string, recognizer Recognizer) error {
	if name == "" {
		return fmt.Errorf("recognizer name cannot be empty")
	}
	if recognizer == nil {
		return fmt.Errorf("recognizer cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.recognizers[name]; exists {
		return fmt.Errorf("recognizer '%s' already registered", name)
	}
	r.recognizers[name] = recognizer

	if r.default_ == "" {
		r.default_ = name
	}
	return nil
}

// Get retrieves a recognizer by name.
func (r *Registry) Get(name string) (Recognizer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recognizer, exists := r.recognizers[name]
	if !exists {
		return nil, fmt.Errorf("recognizer '%s' not found", name)
	}
	return recognizer, nil
}

// Default returns the default recognizer.
func (r *Registry) Default() (Recognizer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.default_ == "" {
		return nil, fmt.Errorf("no default recognizer set")
	}
	recognizer, exists := r.recognizers[r.default_]
	if !exists {
		return nil, fmt.Errorf("default recognizer '%s' not found", r.default_)
	}
	return recognizer, nil
}

// SetDefault changes the default recognizer.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.recognizers[name]; !exists {
		return fmt.Errorf("recognizer '%s' not found", name)
	}
	r.default_ = name
	return nil
}

// List returns all registered recognizer names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.recognizers))
	for name := range r.recognizers {
		names = append(names, name)
	}
	return names
}
