package minds

import (
	"fmt"
	"regexp"

	"github.com/hashicorp/go-multierror"
)

const (
	maxNameLength        = 64
	maxDescriptionLength = 1024
)

// Mind names are lowercase alphanumeric tokens separated by single hyphens,
// which keeps them safe as directory names and tool-call arguments.
var namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// FieldViolation describes a single schema violation as a field path and a
// human-readable message.
type FieldViolation struct {
	Path    string
	Message string
}

func (v FieldViolation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// ValidationError is raised when frontmatter violates the schema. It carries
// every violation found, not just the first, so mind authors can fix a
// broken definition in one pass.
type ValidationError struct {
	Violations []FieldViolation

	wrapped *multierror.Error
}

func (e *ValidationError) Error() string {
	return e.wrapped.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.wrapped
}

// ValidateFrontmatter checks a decoded frontmatter against the schema.
// It returns a *ValidationError enumerating all violations, or nil.
func ValidateFrontmatter(fm Frontmatter) error {
	var violations []FieldViolation
	add := func(path, message string) {
		violations = append(violations, FieldViolation{Path: path, Message: message})
	}

	switch {
	case fm.Name == "":
		add("name", "is required")
	case len(fm.Name) > maxNameLength:
		add("name", fmt.Sprintf("must be at most %d characters", maxNameLength))
	case !namePattern.MatchString(fm.Name):
		add("name", "must be lowercase alphanumeric tokens separated by single hyphens")
	}

	switch {
	case fm.Description == "":
		add("description", "is required")
	case len(fm.Description) > maxDescriptionLength:
		add("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLength))
	}

	if len(violations) == 0 {
		return nil
	}

	var wrapped *multierror.Error
	for _, v := range violations {
		wrapped = multierror.Append(wrapped, fmt.Errorf("%s", v.String()))
	}

	return &ValidationError{Violations: violations, wrapped: wrapped}
}
