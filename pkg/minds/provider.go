package minds

import (
	"context"

	"github.com/pkg/errors"
)

// ConflictStrategy decides which provider wins when two providers declare a
// mind with the same name during discovery.
type ConflictStrategy string

const (
	// ConflictFirst keeps the entry from the earliest provider in the
	// registry's provider order.
	ConflictFirst ConflictStrategy = "first"
	// ConflictLast lets later providers overwrite earlier entries.
	ConflictLast ConflictStrategy = "last"
)

// overrides reports whether a colliding candidate replaces the existing
// owner under this strategy.
func (s ConflictStrategy) overrides() bool {
	return s == ConflictLast
}

// ParseConflictStrategy converts a config string into a ConflictStrategy.
func ParseConflictStrategy(s string) (ConflictStrategy, error) {
	switch ConflictStrategy(s) {
	case ConflictFirst, ConflictLast:
		return ConflictStrategy(s), nil
	case "":
		return ConflictFirst, nil
	default:
		return "", errors.Errorf("unknown conflict strategy %q (expected %q or %q)", s, ConflictFirst, ConflictLast)
	}
}

// Provider abstracts where minds live. Absence is reported through the
// boolean results, never as an error: "not found" is a common, valid
// outcome on every lookup path.
type Provider interface {
	// Name identifies the provider in logs and collision warnings.
	Name() string
	// Discover scans the source and returns metadata for every valid mind.
	// Invalid candidates are skipped, not fatal.
	Discover(ctx context.Context) ([]MindMetadata, error)
	// LoadMind reads and parses a mind fresh. Caching is the registry's job.
	LoadMind(ctx context.Context, name string) (*Mind, bool)
	// HasMind reports whether the provider can serve the named mind.
	HasMind(name string) bool
	// ReadResource returns the text of a file bundled with a mind,
	// addressed by a path relative to the mind's directory.
	ReadResource(ctx context.Context, name, relPath string) (string, bool)
}

// ScriptExecutor is the optional script-execution capability. Providers
// that can run a mind's bundled scripts implement it in addition to
// Provider; callers discover the capability with a type assertion.
type ScriptExecutor interface {
	// ExecuteScript runs a script bundled with a mind and always returns a
	// result, converting spawn failures into ScriptResult with Success
	// false rather than raising them.
	ExecuteScript(ctx context.Context, name, scriptPath string, args []string) *ScriptResult
}
