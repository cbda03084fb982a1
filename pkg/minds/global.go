package minds

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// The process-wide registry gives tool adapters one well-known place to
// reach the current mind set. Re-initialization replaces the instance
// wholesale; prior instances are never mutated.
var (
	globalMu       sync.RWMutex
	globalRegistry *Registry
)

// InitMindRegistry constructs a registry, runs discovery, and installs it
// as the process-wide instance, replacing any previous one.
func InitMindRegistry(ctx context.Context, providers []Provider, opts ...RegistryOption) (*Registry, error) {
	registry := NewRegistry(providers, opts...)
	if err := registry.Init(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to initialize mind registry")
	}

	globalMu.Lock()
	globalRegistry = registry
	globalMu.Unlock()

	return registry, nil
}

// GetMindRegistry returns the process-wide registry. It fails loudly when
// InitMindRegistry has never been called rather than lazily constructing an
// empty instance.
func GetMindRegistry() (*Registry, error) {
	globalMu.RLock()
	defer globalMu.RUnlock()

	if globalRegistry == nil {
		return nil, errors.New("mind registry is not initialized")
	}
	return globalRegistry, nil
}
