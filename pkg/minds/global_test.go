package minds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobalRegistry() {
	globalMu.Lock()
	globalRegistry = nil
	globalMu.Unlock()
}

func TestGetMindRegistryUninitialized(t *testing.T) {
	resetGlobalRegistry()

	registry, err := GetMindRegistry()
	require.Error(t, err)
	assert.Nil(t, registry)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestInitMindRegistryReplacesInstance(t *testing.T) {
	resetGlobalRegistry()
	ctx := context.Background()

	first, err := InitMindRegistry(ctx, []Provider{newFakeProvider("one", testMind("alpha", "First"))})
	require.NoError(t, err)

	current, err := GetMindRegistry()
	require.NoError(t, err)
	assert.Same(t, first, current)

	second, err := InitMindRegistry(ctx, []Provider{newFakeProvider("two", testMind("beta", "Second"))})
	require.NoError(t, err)

	current, err = GetMindRegistry()
	require.NoError(t, err)
	assert.Same(t, second, current)
	assert.NotSame(t, first, current)

	// The replaced instance is untouched
	assert.True(t, first.HasMind("alpha"))
	assert.True(t, current.HasMind("beta"))
	assert.False(t, current.HasMind("alpha"))
}

func TestInitMindRegistryFailureLeavesGlobalUnset(t *testing.T) {
	resetGlobalRegistry()
	ctx := context.Background()

	bad := newFakeProvider("bad")
	bad.discoverErr = assert.AnError

	_, err := InitMindRegistry(ctx, []Provider{bad})
	require.Error(t, err)

	_, err = GetMindRegistry()
	assert.Error(t, err)
}
