package minds

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jingkaihe/mindreg/pkg/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MindFileName is the document every mind directory must contain.
const MindFileName = "MIND.md"

const scriptsDirName = "scripts"

// Environment variables injected into spawned scripts so they can locate
// their own bundle.
const (
	EnvMindName = "MINDREG_MIND_NAME"
	EnvMindDir  = "MINDREG_MIND_DIR"
)

// DefaultScriptTimeout bounds script execution wall-clock time. Scripts
// that exceed it are killed and reported as failures.
const DefaultScriptTimeout = 60 * time.Second

// DirProvider serves minds from a local directory tree where each immediate
// subdirectory containing a MIND.md file is one mind. Optional scripts/,
// references/ and assets/ subdirectories hold supporting files.
type DirProvider struct {
	name    string
	baseDir string
	timeout time.Duration

	mu   sync.RWMutex
	dirs map[string]string // mind name -> absolute mind directory
}

var (
	_ Provider       = (*DirProvider)(nil)
	_ ScriptExecutor = (*DirProvider)(nil)
)

// DirProviderOption configures a DirProvider.
type DirProviderOption func(*DirProvider)

// WithScriptTimeout overrides the default script execution timeout.
func WithScriptTimeout(timeout time.Duration) DirProviderOption {
	return func(p *DirProvider) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

// WithProviderName overrides the generated provider name.
func WithProviderName(name string) DirProviderOption {
	return func(p *DirProvider) {
		p.name = name
	}
}

// NewDirProvider creates a provider rooted at baseDir. The directory does
// not need to exist yet; a missing directory simply yields no minds.
func NewDirProvider(baseDir string, opts ...DirProviderOption) *DirProvider {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		abs = baseDir
	}

	p := &DirProvider{
		name:    "dir:" + abs,
		baseDir: abs,
		timeout: DefaultScriptTimeout,
		dirs:    make(map[string]string),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the provider's identifier.
func (p *DirProvider) Name() string {
	return p.name
}

// BaseDir returns the absolute directory this provider scans.
func (p *DirProvider) BaseDir() string {
	return p.baseDir
}

// Discover scans one directory level for minds. A candidate that fails to
// read or parse is logged and skipped so one broken definition cannot hide
// its valid siblings.
func (p *DirProvider) Discover(ctx context.Context) ([]MindMetadata, error) {
	entries, err := os.ReadDir(p.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read minds directory %s", p.baseDir)
	}

	dirs := make(map[string]string)
	var discovered []MindMetadata

	for _, entry := range entries {
		entryPath := filepath.Join(p.baseDir, entry.Name())

		// Stat follows symlinks so linked mind directories work
		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		mind, err := p.loadFromDir(entryPath)
		if err != nil {
			logger.G(ctx).WithError(err).WithField("path", entryPath).Warn("Skipping invalid mind")
			continue
		}

		if existing, ok := dirs[mind.Metadata.Name]; ok {
			logger.G(ctx).WithFields(logrus.Fields{
				"name":     mind.Metadata.Name,
				"existing": existing,
				"skipped":  entryPath,
			}).Warn("Duplicate mind name within provider, keeping first")
			continue
		}

		dirs[mind.Metadata.Name] = entryPath
		discovered = append(discovered, mind.Metadata)
	}

	p.mu.Lock()
	p.dirs = dirs
	p.mu.Unlock()

	return discovered, nil
}

// LoadMind reads and parses a mind's MIND.md fresh on every call. Minds not
// seen by Discover are still loadable by probing {baseDir}/{name}/MIND.md.
func (p *DirProvider) LoadMind(ctx context.Context, name string) (*Mind, bool) {
	dir, ok := p.resolveDir(name)
	if !ok {
		return nil, false
	}

	mind, err := p.loadFromDir(dir)
	if err != nil {
		logger.G(ctx).WithError(err).WithField("name", name).Debug("Failed to load mind")
		return nil, false
	}

	return mind, true
}

// HasMind reports whether the mind was discovered or exists on disk.
func (p *DirProvider) HasMind(name string) bool {
	_, ok := p.resolveDir(name)
	return ok
}

// ReadResource returns the contents of a file under the mind's directory.
// Parent-directory tokens are stripped from the path before joining.
func (p *DirProvider) ReadResource(ctx context.Context, name, relPath string) (string, bool) {
	dir, ok := p.resolveDir(name)
	if !ok {
		return "", false
	}

	fullPath := filepath.Join(dir, sanitizeRelPath(relPath))
	data, err := os.ReadFile(fullPath)
	if err != nil {
		logger.G(ctx).WithError(err).WithFields(logrus.Fields{
			"name": name,
			"path": relPath,
		}).Debug("Failed to read mind resource")
		return "", false
	}

	return string(data), true
}

// ExecuteScript runs a script from the mind's scripts/ directory. The
// interpreter is selected by file extension; the child process runs in the
// mind's directory with the mind's identity injected into its environment.
// Every failure mode, including spawn errors and timeouts, is reported as a
// ScriptResult rather than an error.
func (p *DirProvider) ExecuteScript(ctx context.Context, name, scriptPath string, args []string) *ScriptResult {
	dir, ok := p.resolveDir(name)
	if !ok {
		return scriptFailure("mind '%s' not found", name)
	}

	rel := sanitizeRelPath(scriptPath)
	if !strings.HasPrefix(filepath.ToSlash(rel), scriptsDirName+"/") {
		rel = filepath.Join(scriptsDirName, rel)
	}
	fullPath := filepath.Join(dir, rel)

	interpreter, ok := interpreterFor(fullPath)
	if !ok {
		return scriptFailure("unsupported script type '%s'", filepath.Ext(fullPath))
	}

	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		return scriptFailure("script '%s' not found", scriptPath)
	}

	execCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	argv := append(append(interpreter[1:], fullPath), args...)
	cmd := exec.CommandContext(execCtx, interpreter[0], argv...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		EnvMindName+"="+name,
		EnvMindDir+"="+dir,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	result := &ScriptResult{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	if runErr != nil {
		if execCtx.Err() == context.DeadlineExceeded {
			result.ExitCode = -1
			result.Stderr = fmt.Sprintf("script timed out after %s", p.timeout)
			return result
		}

		if exitErr, ok := runErr.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result
		}

		// Spawn-level failure: interpreter missing, permission denied, etc.
		result.ExitCode = -1
		if result.Stderr == "" {
			result.Stderr = runErr.Error()
		} else {
			result.Stderr += "\n" + runErr.Error()
		}
		return result
	}

	result.Success = true
	return result
}

// resolveDir returns the mind's directory from the discovery index, falling
// back to probing {baseDir}/{name}/MIND.md for undiscovered minds.
func (p *DirProvider) resolveDir(name string) (string, bool) {
	p.mu.RLock()
	dir, ok := p.dirs[name]
	p.mu.RUnlock()
	if ok {
		return dir, true
	}

	dir = filepath.Join(p.baseDir, name)
	if _, err := os.Stat(filepath.Join(dir, MindFileName)); err != nil {
		return "", false
	}
	return dir, true
}

func (p *DirProvider) loadFromDir(dir string) (*Mind, error) {
	raw, err := os.ReadFile(filepath.Join(dir, MindFileName))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read mind file")
	}

	mind, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	mind.Directory = dir
	return mind, nil
}

// sanitizeRelPath strips parent-directory and empty segments from a
// relative path. This is a textual defense for locally authored minds, not
// a canonical-path containment check.
func sanitizeRelPath(rel string) string {
	segments := strings.Split(filepath.ToSlash(rel), "/")
	kept := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" || segment == "." || segment == ".." {
			continue
		}
		kept = append(kept, segment)
	}
	return filepath.Join(kept...)
}

// interpreterFor selects the interpreter command for a script by extension.
func interpreterFor(path string) ([]string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".js":
		return []string{"bun", "run"}, true
	case ".sh":
		return []string{"bash"}, true
	case ".py":
		return []string{"python3"}, true
	default:
		return nil, false
	}
}

func scriptFailure(format string, args ...interface{}) *ScriptResult {
	return &ScriptResult{
		Success:  false,
		ExitCode: -1,
		Stderr:   fmt.Sprintf(format, args...),
	}
}
