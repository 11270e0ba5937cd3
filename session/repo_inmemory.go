package session

import (
	"fmt"
	"sync"
)

// InMemoryRepo is an in-memory implementation of Repo. It is the default
// session-scoped storage: values live exactly as long as the process, which
// matches the browser-tab session scope the portal wants for tokens.
type InMemoryRepo struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewInMemoryRepo creates a new in-memory session storage scope
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		values: make(map[string]string),
	}
}

func (r *InMemoryRepo) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[key] = value
	return nil
}

func (r *InMemoryRepo) Get(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.values[key]
	if !ok {
		return "", fmt.Errorf("key not found")
	}
	return value, nil
}

func (r *InMemoryRepo) Delete(key string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.values, key)
	return nil
}

func (r *InMemoryRepo) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.values = make(map[string]string)
	return nil
}
