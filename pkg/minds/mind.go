// Package minds implements a capability registry for AI agents. Minds are
// packaged as directories containing a MIND.md file with YAML frontmatter
// describing the mind's purpose, followed by markdown instructions. The
// registry composes one or more providers, resolves name collisions
// deterministically, and serves lookups from in-memory caches so that a
// mind's full content is only loaded when an agent selects it.
package minds

import "strings"

// MindMetadata is the lightweight identity record captured at discovery
// time. It is cheap enough to hold for every known mind simultaneously.
type MindMetadata struct {
	Name        string
	Description string
}

// Frontmatter is the validated metadata block of a MIND.md document.
type Frontmatter struct {
	Name          string            `mapstructure:"name" yaml:"name"`
	Description   string            `mapstructure:"description" yaml:"description"`
	License       string            `mapstructure:"license" yaml:"license,omitempty"`
	Compatibility string            `mapstructure:"compatibility" yaml:"compatibility,omitempty"`
	AllowedTools  string            `mapstructure:"allowed-tools" yaml:"allowed-tools,omitempty"`
	Model         string            `mapstructure:"model" yaml:"model,omitempty"`
	Metadata      map[string]string `mapstructure:"metadata" yaml:"metadata,omitempty"`
}

// SplitAllowedTools returns the allowed-tools field as individual tool
// names. The field is serialized as a single whitespace-separated string.
func (f Frontmatter) SplitAllowedTools() []string {
	return strings.Fields(f.AllowedTools)
}

// Mind is a fully resolved capability bundle. It is immutable after
// construction and cached by the registry keyed by name.
type Mind struct {
	Metadata    MindMetadata
	Frontmatter Frontmatter
	Content     string // markdown body with frontmatter stripped and trimmed
	Directory   string // absolute mind directory, empty for bare parses
}

// ScriptResult captures the outcome of a single script invocation. Results
// are transient and never cached.
type ScriptResult struct {
	Success  bool
	Stdout   string
	Stderr   string
	ExitCode int
}
