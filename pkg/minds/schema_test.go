package minds

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFrontmatterNames(t *testing.T) {
	valid := []string{
		"a",
		"kernel-dev",
		"a1-b2-c3",
		"0numeric",
		strings.Repeat("a", 64),
	}
	for _, name := range valid {
		t.Run("valid "+name, func(t *testing.T) {
			err := ValidateFrontmatter(Frontmatter{Name: name, Description: "ok"})
			assert.NoError(t, err)
		})
	}

	invalid := []string{
		"",
		"Uppercase",
		"has_underscore",
		"-leading",
		"trailing-",
		"double--hyphen",
		"has space",
		strings.Repeat("a", 65),
	}
	for _, name := range invalid {
		t.Run("invalid "+name, func(t *testing.T) {
			err := ValidateFrontmatter(Frontmatter{Name: name, Description: "ok"})
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Violations)
			assert.Equal(t, "name", verr.Violations[0].Path)
		})
	}
}

func TestValidateFrontmatterDescription(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		err := ValidateFrontmatter(Frontmatter{Name: "ok"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "description")
	})

	t.Run("max length accepted", func(t *testing.T) {
		err := ValidateFrontmatter(Frontmatter{Name: "ok", Description: strings.Repeat("d", 1024)})
		assert.NoError(t, err)
	})

	t.Run("too long rejected", func(t *testing.T) {
		err := ValidateFrontmatter(Frontmatter{Name: "ok", Description: strings.Repeat("d", 1025)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1024")
	})
}

func TestValidateFrontmatterReportsAllViolations(t *testing.T) {
	err := ValidateFrontmatter(Frontmatter{Name: "Bad Name", Description: ""})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 2)

	paths := []string{verr.Violations[0].Path, verr.Violations[1].Path}
	assert.Contains(t, paths, "name")
	assert.Contains(t, paths, "description")
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "description")
}
