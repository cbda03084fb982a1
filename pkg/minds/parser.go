package minds

import (
	"bytes"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

const frontmatterDelimiter = "---"

// ErrMissingFrontmatter is returned when a document has no frontmatter
// block delimited by "---" marker lines.
var ErrMissingFrontmatter = errors.New("missing frontmatter delimiters")

// Parse converts raw MIND.md text into a validated Mind. It performs no I/O.
// Structural problems (missing delimiters, undecodable YAML) and schema
// violations are the only error paths; schema violations are reported as a
// *ValidationError carrying every violated field.
func Parse(raw []byte) (*Mind, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(raw, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse mind document")
	}

	metaData, err := meta.TryGet(pctx)
	if err != nil {
		return nil, errors.Wrap(err, "malformed frontmatter")
	}
	if metaData == nil {
		return nil, ErrMissingFrontmatter
	}

	var fm Frontmatter
	if err := mapstructure.Decode(metaData, &fm); err != nil {
		return nil, errors.Wrap(err, "malformed frontmatter")
	}

	if err := ValidateFrontmatter(fm); err != nil {
		return nil, err
	}

	return &Mind{
		Metadata: MindMetadata{
			Name:        fm.Name,
			Description: fm.Description,
		},
		Frontmatter: fm,
		Content:     extractBody(string(raw)),
	}, nil
}

// extractBody strips the frontmatter block and trims surrounding whitespace.
func extractBody(content string) string {
	if !strings.HasPrefix(content, frontmatterDelimiter) {
		return strings.TrimSpace(content)
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelimiter {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return strings.TrimSpace(content)
	}

	return strings.TrimSpace(strings.Join(lines[frontmatterEnd+1:], "\n"))
}
