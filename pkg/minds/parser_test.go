package minds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc := `---
name: code-review
description: Review code for correctness and style
license: MIT
compatibility: ">=1.2"
allowed-tools: file_read grep_tool bash
model: sonnet
metadata:
  author: platform-team
  tier: stable
---

# Code Review

## Instructions

Read the diff first.
`

	mind, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "code-review", mind.Metadata.Name)
	assert.Equal(t, "Review code for correctness and style", mind.Metadata.Description)
	assert.Equal(t, mind.Metadata.Name, mind.Frontmatter.Name)
	assert.Equal(t, "MIT", mind.Frontmatter.License)
	assert.Equal(t, ">=1.2", mind.Frontmatter.Compatibility)
	assert.Equal(t, "sonnet", mind.Frontmatter.Model)
	assert.Equal(t, []string{"file_read", "grep_tool", "bash"}, mind.Frontmatter.SplitAllowedTools())
	assert.Equal(t, map[string]string{"author": "platform-team", "tier": "stable"}, mind.Frontmatter.Metadata)

	assert.NotContains(t, mind.Content, "---")
	assert.NotContains(t, mind.Content, "description:")
	assert.True(t, len(mind.Content) > 0)
	assert.Contains(t, mind.Content, "# Code Review")
	assert.Contains(t, mind.Content, "Read the diff first.")
	assert.Empty(t, mind.Directory)
}

func TestParseMinimalFrontmatter(t *testing.T) {
	doc := `---
name: tiny
description: Smallest valid mind
---
Body.
`
	mind, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "Body.", mind.Content)
	assert.Empty(t, mind.Frontmatter.SplitAllowedTools())
}

func TestParseMissingFrontmatter(t *testing.T) {
	_, err := Parse([]byte("# Just markdown\n\nNo frontmatter at all.\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingFrontmatter)
}

func TestParseValidationFailure(t *testing.T) {
	doc := `---
name: Not Valid
description: ""
---
Body.
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 2)
}

func TestParseMalformedMetadataMap(t *testing.T) {
	doc := `---
name: bad-metadata
description: Metadata values must be strings
metadata:
  nested:
    too: deep
---
Body.
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frontmatter")
}

func TestExtractBody(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "with frontmatter",
			input:    "---\nname: x\n---\n\n# Title\n\nBody.\n",
			expected: "# Title\n\nBody.",
		},
		{
			name:     "no frontmatter",
			input:    "# Title\nBody.",
			expected: "# Title\nBody.",
		},
		{
			name:     "unterminated frontmatter",
			input:    "---\nname: x\n# never closed",
			expected: "---\nname: x\n# never closed",
		},
		{
			name:     "empty body",
			input:    "---\nname: x\n---\n",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractBody(tt.input))
		})
	}
}
