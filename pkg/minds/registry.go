package minds

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jingkaihe/mindreg/pkg/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// NoMindsAvailable is returned by GenerateAvailableMinds when the registry
// holds no minds.
const NoMindsAvailable = "No minds are currently available."

// Registry is the composed, conflict-resolved view over one or more
// providers. Discovery resolves which provider owns each name once; all
// subsequent reads are served from that owner, with full mind content
// cached lazily. Init must complete before reads are issued against the
// same instance; callers must not race a re-Init against in-flight reads.
type Registry struct {
	providers []Provider
	strategy  ConflictStrategy

	mu       sync.RWMutex
	metadata map[string]MindMetadata
	owners   map[string]Provider
	content  map[string]*Mind
	order    []string
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithConflictStrategy sets how name collisions between providers are
// resolved. The default is ConflictFirst.
func WithConflictStrategy(strategy ConflictStrategy) RegistryOption {
	return func(r *Registry) {
		r.strategy = strategy
	}
}

// NewRegistry creates a registry over the given providers. Provider order
// is significant: together with the conflict strategy it fully determines
// ownership of colliding names.
func NewRegistry(providers []Provider, opts ...RegistryOption) *Registry {
	r := &Registry{
		providers: providers,
		strategy:  ConflictFirst,
		metadata:  make(map[string]MindMetadata),
		owners:    make(map[string]Provider),
		content:   make(map[string]*Mind),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Init discovers minds from every provider in order and rebuilds all
// indices, dropping any previously cached content. Indices are built into
// fresh maps and swapped in only when every provider has been processed, so
// a provider failure never leaves metadata and ownership disagreeing.
func (r *Registry) Init(ctx context.Context) error {
	metadata := make(map[string]MindMetadata)
	owners := make(map[string]Provider)
	var order []string

	for _, provider := range r.providers {
		discovered, err := provider.Discover(ctx)
		if err != nil {
			return errors.Wrapf(err, "discovery failed for provider %s", provider.Name())
		}

		for _, md := range discovered {
			existing, seen := owners[md.Name]
			if !seen {
				metadata[md.Name] = md
				owners[md.Name] = provider
				order = append(order, md.Name)
				continue
			}

			logger.G(ctx).WithFields(logrus.Fields{
				"name":      md.Name,
				"existing":  existing.Name(),
				"candidate": provider.Name(),
				"strategy":  r.strategy,
			}).Warn("Mind name collision between providers")

			if r.strategy.overrides() {
				metadata[md.Name] = md
				owners[md.Name] = provider
			}
		}
	}

	r.mu.Lock()
	r.metadata = metadata
	r.owners = owners
	r.order = order
	r.content = make(map[string]*Mind)
	r.mu.Unlock()

	return nil
}

// LoadMind returns the fully resolved mind, loading it from the owning
// provider on first access and serving the cached value afterwards.
func (r *Registry) LoadMind(ctx context.Context, name string) (*Mind, bool) {
	r.mu.RLock()
	if mind, ok := r.content[name]; ok {
		r.mu.RUnlock()
		return mind, true
	}
	owner, ok := r.owners[name]
	r.mu.RUnlock()

	if !ok {
		return nil, false
	}

	mind, ok := owner.LoadMind(ctx, name)
	if !ok {
		return nil, false
	}

	r.mu.Lock()
	r.content[name] = mind
	r.mu.Unlock()

	return mind, true
}

// HasMind reports whether the registry owns the named mind. It never
// touches a provider, so it is safe to call on hot paths.
func (r *Registry) HasMind(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.owners[name]
	return ok
}

// GetMetadata returns the discovery-time metadata for a mind.
func (r *Registry) GetMetadata(name string) (MindMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	md, ok := r.metadata[name]
	return md, ok
}

// ReadResource reads a bundled file through the mind's owning provider.
func (r *Registry) ReadResource(ctx context.Context, name, relPath string) (string, bool) {
	owner, ok := r.owner(name)
	if !ok {
		return "", false
	}
	return owner.ReadResource(ctx, name, relPath)
}

// ExecuteScript runs a bundled script through the mind's owning provider.
// The second return is false when the mind is unknown or its provider does
// not implement script execution; otherwise a ScriptResult is always
// returned, even for failed runs.
func (r *Registry) ExecuteScript(ctx context.Context, name, scriptPath string, args []string) (*ScriptResult, bool) {
	owner, ok := r.owner(name)
	if !ok {
		return nil, false
	}

	runner, ok := owner.(ScriptExecutor)
	if !ok {
		return nil, false
	}

	return runner.ExecuteScript(ctx, name, scriptPath, args), true
}

// SupportsScripts reports whether the mind's owning provider can execute
// scripts.
func (r *Registry) SupportsScripts(name string) bool {
	owner, ok := r.owner(name)
	if !ok {
		return false
	}
	_, ok = owner.(ScriptExecutor)
	return ok
}

// GenerateAvailableMinds renders a bullet list of every known mind for
// inclusion in an agent's context, in discovery order.
func (r *Registry) GenerateAvailableMinds() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return NoMindsAvailable
	}

	var sb strings.Builder
	for _, name := range r.order {
		md := r.metadata[name]
		sb.WriteString(fmt.Sprintf("- `%s`: %s\n", md.Name, md.Description))
	}

	return sb.String()
}

// ListMinds returns a snapshot of all known mind names in discovery order.
func (r *Registry) ListMinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func (r *Registry) owner(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[name]
	return owner, ok
}
